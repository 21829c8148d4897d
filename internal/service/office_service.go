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

// OfficeService manages rental offices.
type OfficeService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewOfficeService(repo domain.Repository, logger *zerolog.Logger) *OfficeService {
	return &OfficeService{repo: repo, logger: logger}
}

func validateOffice(office *models.Office) error {
	if office.Name == "" || office.Address == "" {
		return fmt.Errorf("%w: name and address are required", ErrValidation)
	}
	if office.Latitude < -90 || office.Latitude > 90 {
		return fmt.Errorf("%w: latitude out of range", ErrValidation)
	}
	if office.Longitude < -180 || office.Longitude > 180 {
		return fmt.Errorf("%w: longitude out of range", ErrValidation)
	}
	return nil
}

func (s *OfficeService) CreateOffice(ctx context.Context, office *models.Office) error {
	if err := validateOffice(office); err != nil {
		return err
	}
	if office.ID == "" {
		office.ID = uuid.NewString()
	}
	now := time.Now()
	office.CreatedAt = now
	office.UpdatedAt = now
	return s.repo.CreateOffice(ctx, office)
}

func (s *OfficeService) UpdateOffice(ctx context.Context, office *models.Office) error {
	if err := validateOffice(office); err != nil {
		return err
	}
	office.UpdatedAt = time.Now()
	return s.repo.UpdateOffice(ctx, office)
}

// DeleteOffice refuses to remove an office that still has cars assigned;
// the repository reports that as database.ErrConflict.
func (s *OfficeService) DeleteOffice(ctx context.Context, id string) error {
	if err := s.repo.DeleteOffice(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("office_id", id).Msg("office deleted")
	return nil
}

func (s *OfficeService) GetOffice(ctx context.Context, id string) (*models.Office, error) {
	return s.repo.GetOffice(ctx, id)
}

func (s *OfficeService) ListOffices(ctx context.Context) ([]*models.Office, error) {
	return s.repo.ListOffices(ctx)
}
