package models

import "time"

// ReservationStatus is the closed set of lifecycle states. Transitions are
// defined exclusively by the table below; every mutation path consults it.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "PENDING"
	StatusConfirmed ReservationStatus = "CONFIRMED"
	StatusCompleted ReservationStatus = "COMPLETED"
	StatusCancelled ReservationStatus = "CANCELLED"
)

var statusTransitions = map[ReservationStatus][]ReservationStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted},
}

// Valid reports whether s is one of the four defined statuses.
func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the edge s -> target exists in the table.
func (s ReservationStatus) CanTransitionTo(target ReservationStatus) bool {
	for _, next := range statusTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition is defined out of s.
func (s ReservationStatus) Terminal() bool {
	return len(statusTransitions[s]) == 0 && s.Valid()
}

// Reservation books one car for one user over [StartDate, EndDate).
// QRCode is an opaque pickup token, unique across all reservations and
// unrelated to the primary key.
type Reservation struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	CarID       string            `json:"car_id"`
	StartDate   time.Time         `json:"start_date"`
	EndDate     time.Time         `json:"end_date"`
	TotalAmount float64           `json:"total_amount"`
	Status      ReservationStatus `json:"status"`
	QRCode      string            `json:"qr_code_data"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Version     int64             `json:"version"`
}

// Days returns the billable day count for the half-open date range.
func (r *Reservation) Days() int {
	return int(r.EndDate.Sub(r.StartDate).Hours() / 24)
}
