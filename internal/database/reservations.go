package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"autorent/internal/models"

	"github.com/google/uuid"
)

const reservationColumns = `id, user_id, car_id, start_date, end_date, total_amount,
                            status, qr_code, created_at, updated_at, version`

// CountOverlapping returns how many PENDING or CONFIRMED reservations for the
// car intersect [start, end) under half-open semantics.
func (db *DB) CountOverlapping(ctx context.Context, carID string, start, end time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM reservations
              WHERE car_id = ? AND status IN (?, ?)
              AND start_date < ? AND end_date > ?`
	var count int
	err := db.QueryRowContext(ctx, query, carID,
		models.StatusPending, models.StatusConfirmed,
		end.Format(models.DateLayout), start.Format(models.DateLayout)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count overlapping reservations: %w", err)
	}
	return count, nil
}

// CreateReservationWithLock checks for overlaps and inserts inside one
// transaction so concurrent creates against the same car cannot both pass.
func (db *DB) CreateReservationWithLock(ctx context.Context, r *models.Reservation) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	// qr_code is UNIQUE; an empty token would collide on the second insert.
	if r.QRCode == "" {
		r.QRCode = uuid.NewString()
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var overlapping int
	queryCount := `SELECT COUNT(*) FROM reservations
                   WHERE car_id = ? AND status IN (?, ?)
                   AND start_date < ? AND end_date > ?`
	err = tx.QueryRowContext(ctx, queryCount, r.CarID,
		models.StatusPending, models.StatusConfirmed,
		r.EndDate.Format(models.DateLayout), r.StartDate.Format(models.DateLayout)).Scan(&overlapping)
	if err != nil {
		return fmt.Errorf("check availability in tx: %w", err)
	}
	if overlapping > 0 {
		return ErrNotAvailable
	}

	now := time.Now()
	queryInsert := `INSERT INTO reservations (
                        id, user_id, car_id, start_date, end_date, total_amount,
                        status, qr_code, created_at, updated_at, version
                    ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, queryInsert,
		r.ID, r.UserID, r.CarID,
		r.StartDate.Format(models.DateLayout), r.EndDate.Format(models.DateLayout),
		r.TotalAmount, r.Status, r.QRCode, now, now, 1)
	if err != nil {
		return fmt.Errorf("insert reservation in tx: %w", err)
	}

	r.CreatedAt = now
	r.UpdatedAt = now
	r.Version = 1

	return tx.Commit()
}

func (db *DB) GetReservation(ctx context.Context, id string) (*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	return scanReservation(db.QueryRowContext(ctx, query, id))
}

// GetReservationByQRCode is the pickup-token lookup: pure, repeatable, no
// state change.
func (db *DB) GetReservationByQRCode(ctx context.Context, qrCode string) (*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE qr_code = ?`
	return scanReservation(db.QueryRowContext(ctx, query, qrCode))
}

// UpdateReservationStatusWithVersion applies an optimistic-concurrency status
// update; a lost race surfaces as ErrConcurrentModification.
func (db *DB) UpdateReservationStatusWithVersion(ctx context.Context, id string, fromVersion int64, status models.ReservationStatus) error {
	query := `UPDATE reservations SET status = ?, version = version + 1, updated_at = ?
              WHERE id = ? AND version = ?`
	result, err := db.ExecContext(ctx, query, status, time.Now(), id, fromVersion)
	if err != nil {
		return fmt.Errorf("update reservation status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrConcurrentModification
	}
	return nil
}

func (db *DB) ListUserReservations(ctx context.Context, userID string) ([]*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
              WHERE user_id = ? ORDER BY created_at DESC`
	return db.queryReservations(ctx, query, userID)
}

// ListReservations returns all reservations, newest-created-first, optionally
// filtered by status.
func (db *DB) ListReservations(ctx context.Context, status models.ReservationStatus) ([]*models.Reservation, error) {
	if status == "" {
		query := `SELECT ` + reservationColumns + ` FROM reservations ORDER BY created_at DESC`
		return db.queryReservations(ctx, query)
	}
	query := `SELECT ` + reservationColumns + ` FROM reservations
              WHERE status = ? ORDER BY created_at DESC`
	return db.queryReservations(ctx, query, status)
}

// ListReservationsByDateRange returns reservations whose range intersects
// [start, end), ordered by start date. Used by the schedule export.
func (db *DB) ListReservationsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
              WHERE start_date < ? AND end_date > ?
              ORDER BY start_date ASC, created_at ASC`
	return db.queryReservations(ctx, query,
		end.Format(models.DateLayout), start.Format(models.DateLayout))
}

func (db *DB) queryReservations(ctx context.Context, query string, args ...any) ([]*models.Reservation, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reservations: %w", err)
	}
	defer rows.Close()

	var reservations []*models.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, r)
	}
	return reservations, rows.Err()
}

func scanReservation(row rowScanner) (*models.Reservation, error) {
	var (
		r        models.Reservation
		startStr string
		endStr   string
	)
	err := row.Scan(
		&r.ID, &r.UserID, &r.CarID, &startStr, &endStr, &r.TotalAmount,
		&r.Status, &r.QRCode, &r.CreatedAt, &r.UpdatedAt, &r.Version,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan reservation: %w", err)
	}

	if r.StartDate, err = time.Parse(models.DateLayout, startStr); err != nil {
		return nil, fmt.Errorf("parse start date %s: %w", startStr, err)
	}
	if r.EndDate, err = time.Parse(models.DateLayout, endStr); err != nil {
		return nil, fmt.Errorf("parse end date %s: %w", endStr, err)
	}
	return &r, nil
}
