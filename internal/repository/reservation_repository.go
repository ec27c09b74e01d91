package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tablebook/internal/model"
)

type reservationRepository struct {
	db *gorm.DB
}

// NewReservationRepository creates a new reservation repository.
func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

// Create inserts a reservation. Associations are never written through it.
func (r *reservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(reservation).Error)
}

// FindOwned loads a reservation with its restaurant and user, scoped to its owner.
func (r *reservationRepository) FindOwned(ctx context.Context, userID, id uint) (*model.Reservation, error) {
	var reservation model.Reservation
	if err := r.db.WithContext(ctx).
		Preload("Restaurant").
		Preload("User").
		Where("id = ? AND user_id = ?", id, userID).
		First(&reservation).Error; err != nil {
		return nil, translate(err)
	}
	return &reservation, nil
}

// List returns one page of a user's reservations, newest first.
func (r *reservationRepository) List(ctx context.Context, filter ReservationFilter, page Page) ([]model.Reservation, int64, error) {
	query := func() *gorm.DB {
		return filter.scope(r.db.WithContext(ctx).Model(&model.Reservation{}))
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	reservations := make([]model.Reservation, 0, page.Size)
	if err := query().
		Preload("Restaurant").
		Order(reservationOrder).
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&reservations).Error; err != nil {
		return nil, 0, err
	}
	return reservations, total, nil
}

// Update writes the supplied columns and the updated_at timestamp. It returns
// ErrNotFound when no reservation with id belongs to userID.
func (r *reservationRepository) Update(ctx context.Context, userID, id uint, changes ReservationChanges) error {
	result := r.db.WithContext(ctx).Model(&model.Reservation{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(changes.columns())
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CompleteBefore marks confirmed reservations dated before date as completed.
func (r *reservationRepository) CompleteBefore(ctx context.Context, date string, updatedAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Reservation{}).
		Where("status = ? AND date < ?", model.ReservationStatusConfirmed, date).
		Updates(map[string]interface{}{
			"status":     model.ReservationStatusCompleted,
			"updated_at": updatedAt,
		})
	return result.RowsAffected, result.Error
}
