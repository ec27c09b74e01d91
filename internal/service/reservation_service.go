package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"tablebook/internal/errors"
	"tablebook/internal/model"
	"tablebook/internal/repository"
)

// Reservation lifecycle events passed to an EventRecorder.
const (
	EventReservationCreated   = "created"
	EventReservationUpdated   = "updated"
	EventReservationCancelled = "cancelled"
	EventReservationCompleted = "completed"
)

// EventRecorder receives reservation lifecycle events, typically for metrics.
type EventRecorder interface {
	RecordReservation(event string, n int)
}

type nopRecorder struct{}

func (nopRecorder) RecordReservation(string, int) {}

// CreateReservationInput carries the fields of a new reservation.
type CreateReservationInput struct {
	RestaurantID    uint
	Date            string
	Time            string
	PeopleCount     int
	SpecialRequests string
}

// UpdateReservationInput is a partial update; nil fields are left unchanged.
type UpdateReservationInput struct {
	Date            *string
	Time            *string
	PeopleCount     *int
	SpecialRequests *string
}

func (in UpdateReservationInput) empty() bool {
	return in.Date == nil && in.Time == nil && in.PeopleCount == nil && in.SpecialRequests == nil
}

// ReservationService handles the reservation lifecycle.
type ReservationService interface {
	Create(ctx context.Context, userID uint, in CreateReservationInput) (*model.Reservation, error)
	ListForUser(ctx context.Context, userID uint, status string, page repository.Page) ([]model.Reservation, int64, error)
	GetOwned(ctx context.Context, userID, id uint) (*model.Reservation, error)
	Update(ctx context.Context, userID, id uint, in UpdateReservationInput) (*model.Reservation, error)
	Cancel(ctx context.Context, userID, id uint) error
	// CompletePast moves confirmed reservations dated before today to completed.
	CompletePast(ctx context.Context) (int64, error)
}

type reservationService struct {
	reservations repository.ReservationRepository
	restaurants  repository.RestaurantRepository
	validator    *ReservationValidator
	log          logrus.FieldLogger
	events       EventRecorder
}

// NewReservationService creates a new reservation service. events may be nil.
func NewReservationService(
	reservations repository.ReservationRepository,
	restaurants repository.RestaurantRepository,
	validator *ReservationValidator,
	log logrus.FieldLogger,
	events EventRecorder,
) ReservationService {
	if events == nil {
		events = nopRecorder{}
	}
	return &reservationService{
		reservations: reservations,
		restaurants:  restaurants,
		validator:    validator,
		log:          log,
		events:       events,
	}
}

// Create validates and stores a confirmed reservation.
func (s *reservationService) Create(ctx context.Context, userID uint, in CreateReservationInput) (*model.Reservation, error) {
	if _, err := s.restaurants.FindByID(ctx, in.RestaurantID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errors.ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("find restaurant: %w", err)
	}

	if err := s.validator.ValidateDate(in.Date); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateTime(in.Time); err != nil {
		return nil, err
	}
	if err := s.validator.ValidatePeopleCount(in.PeopleCount); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateSpecialRequests(in.SpecialRequests); err != nil {
		return nil, err
	}

	reservation := &model.Reservation{
		UserID:          userID,
		RestaurantID:    in.RestaurantID,
		Date:            in.Date,
		Time:            in.Time,
		PeopleCount:     in.PeopleCount,
		SpecialRequests: in.SpecialRequests,
		Status:          model.ReservationStatusConfirmed,
	}
	if err := s.reservations.Create(ctx, reservation); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("create reservation: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"reservation_id": reservation.ID,
		"user_id":        userID,
		"restaurant_id":  in.RestaurantID,
	}).Info("reservation created")
	s.events.RecordReservation(EventReservationCreated, 1)

	return s.load(ctx, userID, reservation.ID)
}

// ListForUser returns one page of the user's reservations, newest first.
// Unknown status values do not filter.
func (s *reservationService) ListForUser(ctx context.Context, userID uint, status string, page repository.Page) ([]model.Reservation, int64, error) {
	filter := repository.ReservationFilter{UserID: userID}
	if parsed, ok := model.ParseReservationStatus(status); ok {
		filter.Status = parsed
	}

	items, total, err := s.reservations.List(ctx, filter, page)
	if err != nil {
		return nil, 0, fmt.Errorf("list reservations: %w", err)
	}
	return items, total, nil
}

// GetOwned returns a reservation of the user. Other users' reservations are not found.
func (s *reservationService) GetOwned(ctx context.Context, userID, id uint) (*model.Reservation, error) {
	return s.load(ctx, userID, id)
}

// Update applies the supplied fields to a confirmed reservation.
func (s *reservationService) Update(ctx context.Context, userID, id uint, in UpdateReservationInput) (*model.Reservation, error) {
	current, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if current.IsTerminal() {
		return nil, errors.ErrReservationNotModifiable
	}
	if err := s.validator.ValidateUpdate(in); err != nil {
		return nil, err
	}
	if in.empty() {
		return nil, errors.ErrNoFieldsToUpdate
	}

	changes := repository.ReservationChanges{
		Date:            in.Date,
		Time:            in.Time,
		PeopleCount:     in.PeopleCount,
		SpecialRequests: in.SpecialRequests,
		UpdatedAt:       s.validator.Now(),
	}
	if err := s.reservations.Update(ctx, userID, id, changes); err != nil {
		return nil, s.writeError("update", err)
	}

	s.log.WithField("reservation_id", id).Info("reservation updated")
	s.events.RecordReservation(EventReservationUpdated, 1)

	return s.load(ctx, userID, id)
}

// Cancel soft-cancels a confirmed reservation; the record is kept.
func (s *reservationService) Cancel(ctx context.Context, userID, id uint) error {
	current, err := s.load(ctx, userID, id)
	if err != nil {
		return err
	}
	switch current.Status {
	case model.ReservationStatusCancelled:
		return errors.ErrReservationAlreadyCancelled
	case model.ReservationStatusCompleted:
		return errors.ErrReservationCompleted
	}
	if !model.CanTransition(current.Status, model.ReservationStatusCancelled) {
		return errors.ErrReservationNotModifiable
	}

	cancelled := model.ReservationStatusCancelled
	changes := repository.ReservationChanges{
		Status:    &cancelled,
		UpdatedAt: s.validator.Now(),
	}
	if err := s.reservations.Update(ctx, userID, id, changes); err != nil {
		return s.writeError("cancel", err)
	}

	s.log.WithField("reservation_id", id).Info("reservation cancelled")
	s.events.RecordReservation(EventReservationCancelled, 1)
	return nil
}

func (s *reservationService) CompletePast(ctx context.Context) (int64, error) {
	today := s.validator.Today()
	count, err := s.reservations.CompleteBefore(ctx, today, s.validator.Now())
	if err != nil {
		return 0, fmt.Errorf("complete past reservations: %w", err)
	}
	if count > 0 {
		s.log.WithFields(logrus.Fields{"count": count, "before": today}).Info("past reservations completed")
		s.events.RecordReservation(EventReservationCompleted, int(count))
	}
	return count, nil
}

// writeError maps a row that vanished between load and write to not found.
func (s *reservationService) writeError(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return errors.ErrReservationNotFound
	}
	return fmt.Errorf("%s reservation: %w", op, err)
}

func (s *reservationService) load(ctx context.Context, userID, id uint) (*model.Reservation, error) {
	reservation, err := s.reservations.FindOwned(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errors.ErrReservationNotFound
		}
		return nil, fmt.Errorf("find reservation: %w", err)
	}
	return reservation, nil
}
