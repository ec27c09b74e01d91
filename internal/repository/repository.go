package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"tablebook/internal/model"
)

var (
	// ErrNotFound is returned by every backend when a lookup matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// RestaurantRepository defines catalog persistence operations.
type RestaurantRepository interface {
	Search(ctx context.Context, filter RestaurantFilter, page Page) ([]model.Restaurant, int64, error)
	FindByID(ctx context.Context, id uint) (*model.Restaurant, error)
	DistinctCuisines(ctx context.Context) ([]string, error)
	DistinctLocations(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
	CreateBatch(ctx context.Context, restaurants []model.Restaurant) error
}

// ReservationRepository defines reservation persistence operations.
type ReservationRepository interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	// FindOwned returns the reservation only when it belongs to userID.
	FindOwned(ctx context.Context, userID, id uint) (*model.Reservation, error)
	List(ctx context.Context, filter ReservationFilter, page Page) ([]model.Reservation, int64, error)
	// Update writes only the columns present in changes. It returns ErrNotFound
	// when no reservation with id belongs to userID.
	Update(ctx context.Context, userID, id uint, changes ReservationChanges) error
	// CompleteBefore marks confirmed reservations dated before date as completed.
	CompleteBefore(ctx context.Context, date string, updatedAt time.Time) (int64, error)
}

// Store bundles the repositories of one backend.
type Store struct {
	Users        UserRepository
	Restaurants  RestaurantRepository
	Reservations ReservationRepository
	// Ping reports backend health.
	Ping func(ctx context.Context) error
}

// NewGormStore builds the SQL-backed store.
func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Users:        NewUserRepository(db),
		Restaurants:  NewRestaurantRepository(db),
		Reservations: NewReservationRepository(db),
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
}

// translate maps GORM errors onto the backend-neutral sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
