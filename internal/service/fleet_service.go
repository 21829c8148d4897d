package service

import (
	"context"
	"fmt"
	"time"

	"autorent/internal/domain"
	"autorent/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// FleetService manages the car catalog.
type FleetService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewFleetService(repo domain.Repository, logger *zerolog.Logger) *FleetService {
	return &FleetService{repo: repo, logger: logger}
}

func validateCar(car *models.Car) error {
	if car.Make == "" || car.Model == "" {
		return fmt.Errorf("%w: make and model are required", ErrValidation)
	}
	maxYear := time.Now().Year() + 1
	if car.Year < models.MinCarYear || car.Year > maxYear {
		return fmt.Errorf("%w: year must be between %d and %d", ErrValidation, models.MinCarYear, maxYear)
	}
	if car.PricePerDay < 0 {
		return fmt.Errorf("%w: price per day must not be negative", ErrValidation)
	}
	return nil
}

func (s *FleetService) CreateCar(ctx context.Context, car *models.Car) error {
	if err := validateCar(car); err != nil {
		return err
	}
	if car.OfficeID != "" {
		if _, err := s.repo.GetOffice(ctx, car.OfficeID); err != nil {
			return err
		}
	}
	if car.ID == "" {
		car.ID = uuid.NewString()
	}
	now := time.Now()
	car.CreatedAt = now
	car.UpdatedAt = now
	return s.repo.CreateCar(ctx, car)
}

func (s *FleetService) UpdateCar(ctx context.Context, car *models.Car) error {
	if err := validateCar(car); err != nil {
		return err
	}
	if car.OfficeID != "" {
		if _, err := s.repo.GetOffice(ctx, car.OfficeID); err != nil {
			return err
		}
	}
	car.UpdatedAt = time.Now()
	return s.repo.UpdateCar(ctx, car)
}

// DeleteCar removes a car together with its historical reservations and
// favorites. Cars with pending or confirmed reservations are protected;
// the repository surfaces that as database.ErrConflict.
func (s *FleetService) DeleteCar(ctx context.Context, id string) error {
	if err := s.repo.DeleteCarCascade(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("car_id", id).Msg("car deleted")
	return nil
}

func (s *FleetService) GetCar(ctx context.Context, id string) (*models.Car, error) {
	return s.repo.GetCar(ctx, id)
}

func (s *FleetService) ListCars(ctx context.Context, filter models.CarFilter) ([]*models.Car, error) {
	return s.repo.ListCars(ctx, filter)
}
