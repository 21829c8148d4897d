package database

import (
	"context"
	"fmt"
	"time"
)

// ToggleFavorite adds the (user, car) pair if absent, removes it if present.
// Returns true when the pair was added.
func (db *DB) ToggleFavorite(ctx context.Context, userID, carID string) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var count int
	query := `SELECT COUNT(*) FROM favorites WHERE user_id = ? AND car_id = ?`
	if err := tx.QueryRowContext(ctx, query, userID, carID).Scan(&count); err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}

	if count > 0 {
		_, err = tx.ExecContext(ctx,
			`DELETE FROM favorites WHERE user_id = ? AND car_id = ?`, userID, carID)
		if err != nil {
			return false, fmt.Errorf("remove favorite: %w", err)
		}
		return false, tx.Commit()
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO favorites (user_id, car_id, created_at) VALUES (?, ?, ?)`,
		userID, carID, time.Now())
	if err != nil {
		return false, fmt.Errorf("add favorite: %w", err)
	}
	return true, tx.Commit()
}

func (db *DB) ListFavoriteCarIDs(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT car_id FROM favorites WHERE user_id = ? ORDER BY created_at DESC`
	rows, err := db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	var carIDs []string
	for rows.Next() {
		var carID string
		if err := rows.Scan(&carID); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		carIDs = append(carIDs, carID)
	}
	return carIDs, rows.Err()
}
