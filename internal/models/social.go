package models

import "time"

// Favorite marks a (user, car) pair; toggled, unique per pair.
type Favorite struct {
	UserID    string    `json:"user_id"`
	CarID     string    `json:"car_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Review struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	CarID         string    `json:"car_id"`
	ReservationID string    `json:"reservation_id,omitempty"`
	Rating        int       `json:"rating"` // 1..5
	Comment       string    `json:"comment"`
	CreatedAt     time.Time `json:"created_at"`
}

const (
	NotificationInfo    = "INFO"
	NotificationSuccess = "SUCCESS"
	NotificationWarning = "WARNING"
	NotificationDanger  = "DANGER"
)

// Notification is an append-only message to a user; read-state is not modeled.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}
