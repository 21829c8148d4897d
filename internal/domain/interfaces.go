package domain

import (
	"context"
	"time"

	"autorent/internal/models"
)

// Repository is the persistence boundary consumed by the services. Keyed by
// opaque string identifiers throughout.
type Repository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	CreateOffice(ctx context.Context, office *models.Office) error
	UpdateOffice(ctx context.Context, office *models.Office) error
	GetOffice(ctx context.Context, id string) (*models.Office, error)
	ListOffices(ctx context.Context) ([]*models.Office, error)
	DeleteOffice(ctx context.Context, id string) error

	CreateCar(ctx context.Context, car *models.Car) error
	UpdateCar(ctx context.Context, car *models.Car) error
	GetCar(ctx context.Context, id string) (*models.Car, error)
	ListCars(ctx context.Context, filter models.CarFilter) ([]*models.Car, error)
	DeleteCarCascade(ctx context.Context, carID string) error

	CountOverlapping(ctx context.Context, carID string, start, end time.Time) (int, error)
	CreateReservationWithLock(ctx context.Context, r *models.Reservation) error
	GetReservation(ctx context.Context, id string) (*models.Reservation, error)
	GetReservationByQRCode(ctx context.Context, qrCode string) (*models.Reservation, error)
	UpdateReservationStatusWithVersion(ctx context.Context, id string, fromVersion int64, status models.ReservationStatus) error
	ListUserReservations(ctx context.Context, userID string) ([]*models.Reservation, error)
	ListReservations(ctx context.Context, status models.ReservationStatus) ([]*models.Reservation, error)
	ListReservationsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Reservation, error)

	ToggleFavorite(ctx context.Context, userID, carID string) (bool, error)
	ListFavoriteCarIDs(ctx context.Context, userID string) ([]string, error)

	CreateReview(ctx context.Context, review *models.Review) error
	ListCarReviews(ctx context.Context, carID string) ([]*models.Review, error)

	CreateNotification(ctx context.Context, n *models.Notification) error
	ListUserNotifications(ctx context.Context, userID string) ([]*models.Notification, error)
}

// StateRepository stores assistant conversation state and rate counters.
type StateRepository interface {
	GetChatState(ctx context.Context, userID string) (*models.ChatState, error)
	SetChatState(ctx context.Context, state *models.ChatState) error
	ClearChatState(ctx context.Context, userID string) error
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// EventPublisher fans out reservation lifecycle events.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// ReservationService is the lifecycle, availability-guard and pickup-verifier
// surface.
type ReservationService interface {
	Create(ctx context.Context, userID, carID string, start, end time.Time, submittedTotal float64) (*models.Reservation, error)
	Transition(ctx context.Context, id string, target models.ReservationStatus, actor models.Identity) (*models.Reservation, error)
	CancelByOwner(ctx context.Context, id, userID string) (*models.Reservation, error)
	CheckAvailable(ctx context.Context, carID string, start, end time.Time) (bool, error)
	ResolvePickupToken(ctx context.Context, qrToken string) (string, error)
	ListForUser(ctx context.Context, userID string) ([]*models.Reservation, error)
	ListAll(ctx context.Context, status models.ReservationStatus) ([]*models.Reservation, error)
}

type FleetService interface {
	CreateCar(ctx context.Context, car *models.Car) error
	UpdateCar(ctx context.Context, car *models.Car) error
	DeleteCar(ctx context.Context, id string) error
	GetCar(ctx context.Context, id string) (*models.Car, error)
	ListCars(ctx context.Context, filter models.CarFilter) ([]*models.Car, error)
}

type OfficeService interface {
	CreateOffice(ctx context.Context, office *models.Office) error
	UpdateOffice(ctx context.Context, office *models.Office) error
	DeleteOffice(ctx context.Context, id string) error
	GetOffice(ctx context.Context, id string) (*models.Office, error)
	ListOffices(ctx context.Context) ([]*models.Office, error)
}

type UserService interface {
	Register(ctx context.Context, email, password, name string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
}

type FavoriteService interface {
	Toggle(ctx context.Context, userID, carID string) (bool, error)
	ListCarIDs(ctx context.Context, userID string) ([]string, error)
}

type ReviewService interface {
	Create(ctx context.Context, review *models.Review) error
	ListForCar(ctx context.Context, carID string) ([]*models.Review, error)
}

type NotificationService interface {
	ListForUser(ctx context.Context, userID string) ([]*models.Notification, error)
}

// Assistant answers chat messages, optionally executing the reservation
// cancel tool on behalf of the authenticated caller.
type Assistant interface {
	Chat(ctx context.Context, identity *models.Identity, message string) (string, error)
}
