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

func newFleetService(repo *mockRepo) *FleetService {
	logger := zerolog.Nop()
	return NewFleetService(repo, &logger)
}

func TestCreateCar(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetOffice", ctx, "office-1").Return(&models.Office{ID: "office-1"}, nil)
		repo.On("CreateCar", ctx, mock.AnythingOfType("*models.Car")).Return(nil)

		svc := newFleetService(repo)
		car := &models.Car{Make: "Toyota", Model: "Corolla", Year: 2022, PricePerDay: 50, OfficeID: "office-1"}
		require.NoError(t, svc.CreateCar(ctx, car))
		assert.NotEmpty(t, car.ID)
		repo.AssertExpectations(t)
	})

	t.Run("YearTooOld", func(t *testing.T) {
		svc := newFleetService(new(mockRepo))
		err := svc.CreateCar(ctx, &models.Car{Make: "Ford", Model: "T", Year: 1899, PricePerDay: 1})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("YearTooFarAhead", func(t *testing.T) {
		svc := newFleetService(new(mockRepo))
		err := svc.CreateCar(ctx, &models.Car{Make: "Tesla", Model: "X", Year: time.Now().Year() + 2, PricePerDay: 1})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("NegativePrice", func(t *testing.T) {
		svc := newFleetService(new(mockRepo))
		err := svc.CreateCar(ctx, &models.Car{Make: "Tesla", Model: "X", Year: 2022, PricePerDay: -1})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("MissingMake", func(t *testing.T) {
		svc := newFleetService(new(mockRepo))
		err := svc.CreateCar(ctx, &models.Car{Model: "X", Year: 2022, PricePerDay: 1})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("UnknownOffice", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetOffice", ctx, "ghost").Return(nil, database.ErrNotFound)

		svc := newFleetService(repo)
		err := svc.CreateCar(ctx, &models.Car{Make: "Toyota", Model: "Corolla", Year: 2022, PricePerDay: 50, OfficeID: "ghost"})
		assert.ErrorIs(t, err, database.ErrNotFound)
	})
}

func TestDeleteCar(t *testing.T) {
	ctx := context.Background()

	t.Run("BlockedByActiveReservations", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("DeleteCarCascade", ctx, "car-1").Return(database.ErrConflict)

		svc := newFleetService(repo)
		assert.ErrorIs(t, svc.DeleteCar(ctx, "car-1"), database.ErrConflict)
	})

	t.Run("Success", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("DeleteCarCascade", ctx, "car-1").Return(nil)

		svc := newFleetService(repo)
		assert.NoError(t, svc.DeleteCar(ctx, "car-1"))
	})
}

func TestOfficeService(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	t.Run("CreateSuccess", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("CreateOffice", ctx, mock.AnythingOfType("*models.Office")).Return(nil)

		svc := NewOfficeService(repo, &logger)
		office := &models.Office{Name: "Airport", Address: "Terminal 1", Latitude: 52.3, Longitude: 4.76}
		require.NoError(t, svc.CreateOffice(ctx, office))
		assert.NotEmpty(t, office.ID)
	})

	t.Run("BadLatitude", func(t *testing.T) {
		svc := NewOfficeService(new(mockRepo), &logger)
		err := svc.CreateOffice(ctx, &models.Office{Name: "X", Address: "Y", Latitude: 91})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("DeleteBlockedByCars", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("DeleteOffice", ctx, "office-1").Return(database.ErrConflict)

		svc := NewOfficeService(repo, &logger)
		assert.ErrorIs(t, svc.DeleteOffice(ctx, "office-1"), database.ErrConflict)
	})
}

func TestReviewService(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	t.Run("RatingOutOfRange", func(t *testing.T) {
		svc := NewReviewService(new(mockRepo), &logger)
		err := svc.Create(ctx, &models.Review{CarID: "car-1", Rating: 6, Comment: "great"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("Success", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetCar", ctx, "car-1").Return(&models.Car{ID: "car-1"}, nil)
		repo.On("CreateReview", ctx, mock.AnythingOfType("*models.Review")).Return(nil)

		svc := NewReviewService(repo, &logger)
		review := &models.Review{UserID: "user-1", CarID: "car-1", Rating: 5, Comment: "great car"}
		require.NoError(t, svc.Create(ctx, review))
		assert.NotEmpty(t, review.ID)
	})
}

func TestFavoriteService(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	t.Run("ToggleOnAndOff", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetCar", ctx, "car-1").Return(&models.Car{ID: "car-1"}, nil)
		repo.On("ToggleFavorite", ctx, "user-1", "car-1").Return(true, nil).Once()
		repo.On("ToggleFavorite", ctx, "user-1", "car-1").Return(false, nil).Once()

		svc := NewFavoriteService(repo, &logger)

		added, err := svc.Toggle(ctx, "user-1", "car-1")
		require.NoError(t, err)
		assert.True(t, added)

		added, err = svc.Toggle(ctx, "user-1", "car-1")
		require.NoError(t, err)
		assert.False(t, added)
	})

	t.Run("UnknownCar", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetCar", ctx, "ghost").Return(nil, database.ErrNotFound)

		svc := NewFavoriteService(repo, &logger)
		_, err := svc.Toggle(ctx, "user-1", "ghost")
		assert.ErrorIs(t, err, database.ErrNotFound)
	})
}
