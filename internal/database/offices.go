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

func (db *DB) CreateOffice(ctx context.Context, office *models.Office) error {
	if office.ID == "" {
		office.ID = uuid.NewString()
	}
	now := time.Now()

	query := `INSERT INTO offices (id, name, address, latitude, longitude, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query,
		office.ID, office.Name, office.Address, office.Latitude, office.Longitude, now, now)
	if err != nil {
		return fmt.Errorf("create office: %w", err)
	}

	office.CreatedAt = now
	office.UpdatedAt = now
	return nil
}

func (db *DB) UpdateOffice(ctx context.Context, office *models.Office) error {
	query := `UPDATE offices SET name = ?, address = ?, latitude = ?, longitude = ?, updated_at = ?
              WHERE id = ?`
	result, err := db.ExecContext(ctx, query,
		office.Name, office.Address, office.Latitude, office.Longitude, time.Now(), office.ID)
	if err != nil {
		return fmt.Errorf("update office: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) GetOffice(ctx context.Context, id string) (*models.Office, error) {
	query := `SELECT id, name, address, latitude, longitude, created_at, updated_at
              FROM offices WHERE id = ?`

	var office models.Office
	err := db.QueryRowContext(ctx, query, id).Scan(
		&office.ID, &office.Name, &office.Address, &office.Latitude, &office.Longitude,
		&office.CreatedAt, &office.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get office: %w", err)
	}
	return &office, nil
}

func (db *DB) ListOffices(ctx context.Context) ([]*models.Office, error) {
	query := `SELECT id, name, address, latitude, longitude, created_at, updated_at
              FROM offices ORDER BY name ASC`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list offices: %w", err)
	}
	defer rows.Close()

	var offices []*models.Office
	for rows.Next() {
		o := &models.Office{}
		err := rows.Scan(&o.ID, &o.Name, &o.Address, &o.Latitude, &o.Longitude,
			&o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan office: %w", err)
		}
		offices = append(offices, o)
	}
	return offices, rows.Err()
}

// DeleteOffice removes an office unless it still owns cars. The guard and the
// delete run in one transaction so a concurrent car insert cannot slip by.
func (db *DB) DeleteOffice(ctx context.Context, id string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var carCount int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM cars WHERE office_id = ?`, id).Scan(&carCount); err != nil {
		return fmt.Errorf("count office cars: %w", err)
	}
	if carCount > 0 {
		return ErrConflict
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM offices WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete office: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}
