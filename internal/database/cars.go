package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"autorent/internal/models"

	"github.com/google/uuid"
)

const carColumns = `id, make, model, year, price_per_day, image_url, description,
                    transmission, fuel_type, available, category_id, office_id,
                    created_at, updated_at`

func (db *DB) CreateCar(ctx context.Context, car *models.Car) error {
	if car.ID == "" {
		car.ID = uuid.NewString()
	}
	now := time.Now()

	query := `INSERT INTO cars (id, make, model, year, price_per_day, image_url, description,
                                transmission, fuel_type, available, category_id, office_id,
                                created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query,
		car.ID, car.Make, car.Model, car.Year, car.PricePerDay, car.ImageURL,
		nullable(car.Description), car.Transmission, car.FuelType, car.Available,
		nullable(car.CategoryID), car.OfficeID, now, now)
	if err != nil {
		return fmt.Errorf("create car: %w", err)
	}

	car.CreatedAt = now
	car.UpdatedAt = now
	return nil
}

func (db *DB) UpdateCar(ctx context.Context, car *models.Car) error {
	query := `UPDATE cars SET make = ?, model = ?, year = ?, price_per_day = ?, image_url = ?,
                              description = ?, transmission = ?, fuel_type = ?, available = ?,
                              category_id = ?, office_id = ?, updated_at = ?
              WHERE id = ?`
	result, err := db.ExecContext(ctx, query,
		car.Make, car.Model, car.Year, car.PricePerDay, car.ImageURL,
		nullable(car.Description), car.Transmission, car.FuelType, car.Available,
		nullable(car.CategoryID), car.OfficeID, time.Now(), car.ID)
	if err != nil {
		return fmt.Errorf("update car: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) GetCar(ctx context.Context, id string) (*models.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = ?`

	car, err := scanCar(db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return car, nil
}

func (db *DB) ListCars(ctx context.Context, filter models.CarFilter) ([]*models.Car, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Make != "" {
		conds = append(conds, "make = ?")
		args = append(args, filter.Make)
	}
	if filter.Transmission != "" {
		conds = append(conds, "transmission = ?")
		args = append(args, filter.Transmission)
	}
	if filter.FuelType != "" {
		conds = append(conds, "fuel_type = ?")
		args = append(args, filter.FuelType)
	}
	if filter.OfficeID != "" {
		conds = append(conds, "office_id = ?")
		args = append(args, filter.OfficeID)
	}
	if filter.MaxPricePerDay > 0 {
		conds = append(conds, "price_per_day <= ?")
		args = append(args, filter.MaxPricePerDay)
	}
	if filter.OnlyAvailable {
		conds = append(conds, "available = 1")
	}

	query := `SELECT ` + carColumns + ` FROM cars`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY make, model"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}
	defer rows.Close()

	var cars []*models.Car
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, car)
	}
	return cars, rows.Err()
}

// HasActiveReservations reports whether any PENDING or CONFIRMED reservation
// references the car.
func (db *DB) HasActiveReservations(ctx context.Context, carID string) (bool, error) {
	query := `SELECT COUNT(*) FROM reservations WHERE car_id = ? AND status IN (?, ?)`
	var count int
	err := db.QueryRowContext(ctx, query, carID,
		models.StatusPending, models.StatusConfirmed).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("count active reservations: %w", err)
	}
	return count > 0, nil
}

// DeleteCarCascade purges the car's reservations and then the car itself in
// one transaction. Fails with ErrConflict while active reservations exist;
// a mid-failure leaves everything in place.
func (db *DB) DeleteCarCascade(ctx context.Context, carID string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var active int
	query := `SELECT COUNT(*) FROM reservations WHERE car_id = ? AND status IN (?, ?)`
	if err := tx.QueryRowContext(ctx, query, carID,
		models.StatusPending, models.StatusConfirmed).Scan(&active); err != nil {
		return fmt.Errorf("count active reservations in tx: %w", err)
	}
	if active > 0 {
		return ErrConflict
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE car_id = ?`, carID); err != nil {
		return fmt.Errorf("delete car reservations: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM favorites WHERE car_id = ?`, carID); err != nil {
		return fmt.Errorf("delete car favorites: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM cars WHERE id = ?`, carID)
	if err != nil {
		return fmt.Errorf("delete car: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCar(row rowScanner) (*models.Car, error) {
	var (
		car         models.Car
		description sql.NullString
		categoryID  sql.NullString
	)
	err := row.Scan(
		&car.ID, &car.Make, &car.Model, &car.Year, &car.PricePerDay, &car.ImageURL,
		&description, &car.Transmission, &car.FuelType, &car.Available,
		&categoryID, &car.OfficeID, &car.CreatedAt, &car.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan car: %w", err)
	}
	car.Description = description.String
	car.CategoryID = categoryID.String
	return &car, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
