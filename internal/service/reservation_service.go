package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"autorent/internal/database"
	"autorent/internal/domain"
	"autorent/internal/events"
	"autorent/internal/metrics"
	"autorent/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ReservationService owns the reservation lifecycle: creation behind the
// overlap guard, status transitions, and pickup token resolution.
type ReservationService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewReservationService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *ReservationService {
	return &ReservationService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Create validates the requested period, prices it from the car's current
// rate and inserts it behind the transactional overlap check. The submitted
// total is ignored; the server's own arithmetic is authoritative.
func (s *ReservationService) Create(ctx context.Context, userID, carID string, start, end time.Time, submittedTotal float64) (*models.Reservation, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end date must be after start date", ErrValidation)
	}

	// The car's available flag is informational; booking conflicts are
	// decided by the overlap guard alone.
	car, err := s.repo.GetCar(ctx, carID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	reservation := &models.Reservation{
		ID:        uuid.NewString(),
		UserID:    userID,
		CarID:     carID,
		StartDate: start,
		EndDate:   end,
		Status:    models.StatusPending,
		QRCode:    uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}
	reservation.TotalAmount = float64(reservation.Days()) * car.PricePerDay

	if submittedTotal != 0 && submittedTotal != reservation.TotalAmount {
		s.logger.Warn().
			Str("car_id", carID).
			Float64("submitted", submittedTotal).
			Float64("computed", reservation.TotalAmount).
			Msg("submitted total ignored")
	}

	if err := s.repo.CreateReservationWithLock(ctx, reservation); err != nil {
		if errors.Is(err, database.ErrNotAvailable) {
			metrics.IncConflict()
		}
		return nil, err
	}

	s.publishEvent(events.EventReservationCreated, reservation, car, "user", userID)
	return reservation, nil
}

// Transition moves a reservation to the target status. Admins may perform
// any transition the table allows; owners may only cancel their own pending
// reservations.
func (s *ReservationService) Transition(ctx context.Context, id string, target models.ReservationStatus, actor models.Identity) (*models.Reservation, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, target)
	}

	reservation, err := s.repo.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() {
		if reservation.UserID != actor.ID || target != models.StatusCancelled {
			return nil, ErrUnauthorized
		}
	}

	if !reservation.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, reservation.Status, target)
	}

	if err := s.repo.UpdateReservationStatusWithVersion(ctx, id, reservation.Version, target); err != nil {
		return nil, err
	}
	metrics.IncTransition(string(target))

	reservation.Status = target
	reservation.Version++
	reservation.UpdatedAt = time.Now()

	car, carErr := s.repo.GetCar(ctx, reservation.CarID)
	if carErr != nil {
		car = nil
	}

	role := "user"
	if actor.IsAdmin() {
		role = "admin"
	}
	s.publishEvent(eventForStatus(target), reservation, car, role, actor.ID)

	return reservation, nil
}

// CancelByOwner cancels the caller's own reservation, subject to the same
// lifecycle rules as any other transition.
func (s *ReservationService) CancelByOwner(ctx context.Context, id, userID string) (*models.Reservation, error) {
	actor := models.Identity{ID: userID, Role: models.RoleUser}
	return s.Transition(ctx, id, models.StatusCancelled, actor)
}

// CheckAvailable reports whether the car is free for the half-open period.
func (s *ReservationService) CheckAvailable(ctx context.Context, carID string, start, end time.Time) (bool, error) {
	if !end.After(start) {
		return false, fmt.Errorf("%w: end date must be after start date", ErrValidation)
	}
	count, err := s.repo.CountOverlapping(ctx, carID, start, end)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// ResolvePickupToken maps a pickup code back to its reservation ID. Unknown
// tokens surface as database.ErrNotFound.
func (s *ReservationService) ResolvePickupToken(ctx context.Context, qrToken string) (string, error) {
	if qrToken == "" {
		return "", fmt.Errorf("%w: empty pickup token", ErrValidation)
	}
	reservation, err := s.repo.GetReservationByQRCode(ctx, qrToken)
	if err != nil {
		return "", err
	}
	return reservation.ID, nil
}

func (s *ReservationService) ListForUser(ctx context.Context, userID string) ([]*models.Reservation, error) {
	return s.repo.ListUserReservations(ctx, userID)
}

func (s *ReservationService) ListAll(ctx context.Context, status models.ReservationStatus) ([]*models.Reservation, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	return s.repo.ListReservations(ctx, status)
}

func eventForStatus(status models.ReservationStatus) string {
	switch status {
	case models.StatusConfirmed:
		return events.EventReservationConfirmed
	case models.StatusCancelled:
		return events.EventReservationCancelled
	case models.StatusCompleted:
		return events.EventReservationCompleted
	default:
		return events.EventReservationCreated
	}
}

func (s *ReservationService) publishEvent(eventType string, r *models.Reservation, car *models.Car, changedBy, changedByID string) {
	if s.eventBus == nil {
		return
	}

	payload := events.ReservationEventPayload{
		ReservationID: r.ID,
		UserID:        r.UserID,
		CarID:         r.CarID,
		Status:        string(r.Status),
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
		TotalAmount:   r.TotalAmount,
		ChangedBy:     changedBy,
		ChangedByID:   changedByID,
	}
	if car != nil {
		payload.CarName = fmt.Sprintf("%s %s", car.Make, car.Model)
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("reservation_id", r.ID).Msg("publish event error")
	}
}
