package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"autorent/internal/domain"
	"autorent/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// FavoriteService toggles and lists per-user car favorites.
type FavoriteService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewFavoriteService(repo domain.Repository, logger *zerolog.Logger) *FavoriteService {
	return &FavoriteService{repo: repo, logger: logger}
}

// Toggle flips the favorite mark and reports the resulting state: true when
// the car is now a favorite.
func (s *FavoriteService) Toggle(ctx context.Context, userID, carID string) (bool, error) {
	if _, err := s.repo.GetCar(ctx, carID); err != nil {
		return false, err
	}
	return s.repo.ToggleFavorite(ctx, userID, carID)
}

func (s *FavoriteService) ListCarIDs(ctx context.Context, userID string) ([]string, error) {
	return s.repo.ListFavoriteCarIDs(ctx, userID)
}

// ReviewService records and lists car reviews.
type ReviewService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewReviewService(repo domain.Repository, logger *zerolog.Logger) *ReviewService {
	return &ReviewService{repo: repo, logger: logger}
}

func (s *ReviewService) Create(ctx context.Context, review *models.Review) error {
	if review.Rating < 1 || review.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	if strings.TrimSpace(review.Comment) == "" {
		return fmt.Errorf("%w: comment is required", ErrValidation)
	}
	if _, err := s.repo.GetCar(ctx, review.CarID); err != nil {
		return err
	}

	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	review.CreatedAt = time.Now()
	return s.repo.CreateReview(ctx, review)
}

func (s *ReviewService) ListForCar(ctx context.Context, carID string) ([]*models.Review, error) {
	return s.repo.ListCarReviews(ctx, carID)
}

// NotificationService exposes the per-user notification feed.
type NotificationService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewNotificationService(repo domain.Repository, logger *zerolog.Logger) *NotificationService {
	return &NotificationService{repo: repo, logger: logger}
}

func (s *NotificationService) ListForUser(ctx context.Context, userID string) ([]*models.Notification, error) {
	return s.repo.ListUserNotifications(ctx, userID)
}
