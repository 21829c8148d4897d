package database

import (
	"context"
	"fmt"
	"time"

	"autorent/internal/models"

	"github.com/google/uuid"
)

func (db *DB) CreateReview(ctx context.Context, review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	now := time.Now()

	query := `INSERT INTO reviews (id, user_id, car_id, reservation_id, rating, comment, created_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query,
		review.ID, review.UserID, review.CarID, nullable(review.ReservationID),
		review.Rating, review.Comment, now)
	if err != nil {
		return fmt.Errorf("create review: %w", err)
	}

	review.CreatedAt = now
	return nil
}

func (db *DB) ListCarReviews(ctx context.Context, carID string) ([]*models.Review, error) {
	query := `SELECT id, user_id, car_id, COALESCE(reservation_id, ''), rating, comment, created_at
              FROM reviews WHERE car_id = ? ORDER BY created_at DESC`

	rows, err := db.QueryContext(ctx, query, carID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		r := &models.Review{}
		err := rows.Scan(&r.ID, &r.UserID, &r.CarID, &r.ReservationID,
			&r.Rating, &r.Comment, &r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}
