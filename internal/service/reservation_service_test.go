package service

import (
	"context"
	"testing"
	"time"

	"autorent/internal/database"
	"autorent/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newReservationService(repo *mockRepo) *ReservationService {
	logger := zerolog.Nop()
	return NewReservationService(repo, nil, &logger)
}

func testCar() *models.Car {
	return &models.Car{
		ID:          "car-1",
		Make:        "Toyota",
		Model:       "Corolla",
		Year:        2022,
		PricePerDay: 50,
		Available:   true,
	}
}

func TestCreateReservation(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetCar", ctx, "car-1").Return(testCar(), nil)
		repo.On("CreateReservationWithLock", ctx, mock.AnythingOfType("*models.Reservation")).Return(nil)

		svc := newReservationService(repo)
		got, err := svc.Create(ctx, "user-1", "car-1", start, end, 0)
		require.NoError(t, err)

		assert.Equal(t, models.StatusPending, got.Status)
		assert.NotEmpty(t, got.ID)
		assert.NotEmpty(t, got.QRCode)
		assert.NotEqual(t, got.ID, got.QRCode)
		assert.Equal(t, int64(1), got.Version)
		// 4 days at 50 per day.
		assert.Equal(t, 200.0, got.TotalAmount)
		repo.AssertExpectations(t)
	})

	t.Run("SubmittedTotalIgnored", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetCar", ctx, "car-1").Return(testCar(), nil)
		repo.On("CreateReservationWithLock", ctx, mock.AnythingOfType("*models.Reservation")).Return(nil)

		svc := newReservationService(repo)
		got, err := svc.Create(ctx, "user-1", "car-1", start, end, 1.0)
		require.NoError(t, err)
		assert.Equal(t, 200.0, got.TotalAmount)
	})

	t.Run("EndBeforeStart", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newReservationService(repo)

		_, err := svc.Create(ctx, "user-1", "car-1", end, start, 0)
		assert.ErrorIs(t, err, ErrValidation)
		repo.AssertNotCalled(t, "CreateReservationWithLock")
	})

	t.Run("ZeroLengthPeriod", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newReservationService(repo)

		_, err := svc.Create(ctx, "user-1", "car-1", start, start, 0)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("OverlapRejected", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetCar", ctx, "car-1").Return(testCar(), nil)
		repo.On("CreateReservationWithLock", ctx, mock.AnythingOfType("*models.Reservation")).
			Return(database.ErrNotAvailable)

		svc := newReservationService(repo)
		_, err := svc.Create(ctx, "user-1", "car-1", start, end, 0)
		assert.ErrorIs(t, err, database.ErrNotAvailable)
	})

	t.Run("AvailableFlagIsInformational", func(t *testing.T) {
		// A free period books regardless of the flag; only reservation
		// overlap decides conflicts.
		car := testCar()
		car.Available = false
		repo := new(mockRepo)
		repo.On("GetCar", ctx, "car-1").Return(car, nil)
		repo.On("CreateReservationWithLock", ctx, mock.AnythingOfType("*models.Reservation")).Return(nil)

		svc := newReservationService(repo)
		got, err := svc.Create(ctx, "user-1", "car-1", start, end, 0)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, got.Status)
		repo.AssertExpectations(t)
	})

	t.Run("CarNotFound", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetCar", ctx, "missing").Return(nil, database.ErrNotFound)

		svc := newReservationService(repo)
		_, err := svc.Create(ctx, "user-1", "missing", start, end, 0)
		assert.ErrorIs(t, err, database.ErrNotFound)
	})
}

func TestTransition(t *testing.T) {
	ctx := context.Background()
	admin := models.Identity{ID: "admin-1", Role: models.RoleAdmin}
	owner := models.Identity{ID: "user-1", Role: models.RoleUser}

	pending := func() *models.Reservation {
		return &models.Reservation{
			ID:      "res-1",
			UserID:  "user-1",
			CarID:   "car-1",
			Status:  models.StatusPending,
			Version: 3,
		}
	}

	t.Run("AdminConfirms", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetReservation", ctx, "res-1").Return(pending(), nil)
		repo.On("UpdateReservationStatusWithVersion", ctx, "res-1", int64(3), models.StatusConfirmed).Return(nil)
		repo.On("GetCar", ctx, "car-1").Return(testCar(), nil)

		svc := newReservationService(repo)
		got, err := svc.Transition(ctx, "res-1", models.StatusConfirmed, admin)
		require.NoError(t, err)
		assert.Equal(t, models.StatusConfirmed, got.Status)
		assert.Equal(t, int64(4), got.Version)
		repo.AssertExpectations(t)
	})

	t.Run("OwnerCancelsPending", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetReservation", ctx, "res-1").Return(pending(), nil)
		repo.On("UpdateReservationStatusWithVersion", ctx, "res-1", int64(3), models.StatusCancelled).Return(nil)
		repo.On("GetCar", ctx, "car-1").Return(testCar(), nil)

		svc := newReservationService(repo)
		got, err := svc.CancelByOwner(ctx, "res-1", "user-1")
		require.NoError(t, err)
		assert.Equal(t, models.StatusCancelled, got.Status)
	})

	t.Run("OwnerCannotConfirm", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetReservation", ctx, "res-1").Return(pending(), nil)

		svc := newReservationService(repo)
		_, err := svc.Transition(ctx, "res-1", models.StatusConfirmed, owner)
		assert.ErrorIs(t, err, ErrUnauthorized)
		repo.AssertNotCalled(t, "UpdateReservationStatusWithVersion")
	})

	t.Run("StrangerCannotCancel", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetReservation", ctx, "res-1").Return(pending(), nil)

		svc := newReservationService(repo)
		_, err := svc.CancelByOwner(ctx, "res-1", "someone-else")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("OwnerCannotCancelConfirmed", func(t *testing.T) {
		confirmed := pending()
		confirmed.Status = models.StatusConfirmed
		repo := new(mockRepo)
		repo.On("GetReservation", ctx, "res-1").Return(confirmed, nil)

		svc := newReservationService(repo)
		_, err := svc.CancelByOwner(ctx, "res-1", "user-1")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("CompletedIsTerminal", func(t *testing.T) {
		completed := pending()
		completed.Status = models.StatusCompleted
		repo := new(mockRepo)
		repo.On("GetReservation", ctx, "res-1").Return(completed, nil)

		svc := newReservationService(repo)
		_, err := svc.Transition(ctx, "res-1", models.StatusCancelled, admin)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("PendingCannotComplete", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetReservation", ctx, "res-1").Return(pending(), nil)

		svc := newReservationService(repo)
		_, err := svc.Transition(ctx, "res-1", models.StatusCompleted, admin)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("UnknownStatus", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newReservationService(repo)

		_, err := svc.Transition(ctx, "res-1", models.ReservationStatus("SHIPPED"), admin)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("ConcurrentModification", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetReservation", ctx, "res-1").Return(pending(), nil)
		repo.On("UpdateReservationStatusWithVersion", ctx, "res-1", int64(3), models.StatusConfirmed).
			Return(database.ErrConcurrentModification)

		svc := newReservationService(repo)
		_, err := svc.Transition(ctx, "res-1", models.StatusConfirmed, admin)
		assert.ErrorIs(t, err, database.ErrConcurrentModification)
	})
}

func TestCheckAvailable(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	t.Run("Free", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("CountOverlapping", ctx, "car-1", start, end).Return(0, nil)

		svc := newReservationService(repo)
		free, err := svc.CheckAvailable(ctx, "car-1", start, end)
		require.NoError(t, err)
		assert.True(t, free)
	})

	t.Run("Taken", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("CountOverlapping", ctx, "car-1", start, end).Return(2, nil)

		svc := newReservationService(repo)
		free, err := svc.CheckAvailable(ctx, "car-1", start, end)
		require.NoError(t, err)
		assert.False(t, free)
	})

	t.Run("BadPeriod", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newReservationService(repo)

		_, err := svc.CheckAvailable(ctx, "car-1", end, start)
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestResolvePickupToken(t *testing.T) {
	ctx := context.Background()

	t.Run("Known", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetReservationByQRCode", ctx, "qr-token").
			Return(&models.Reservation{ID: "res-1", QRCode: "qr-token"}, nil)

		svc := newReservationService(repo)
		id, err := svc.ResolvePickupToken(ctx, "qr-token")
		require.NoError(t, err)
		assert.Equal(t, "res-1", id)
	})

	t.Run("Unknown", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetReservationByQRCode", ctx, "nope").Return(nil, database.ErrNotFound)

		svc := newReservationService(repo)
		_, err := svc.ResolvePickupToken(ctx, "nope")
		assert.ErrorIs(t, err, database.ErrNotFound)
	})

	t.Run("Empty", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newReservationService(repo)

		_, err := svc.ResolvePickupToken(ctx, "")
		assert.ErrorIs(t, err, ErrValidation)
	})
}
