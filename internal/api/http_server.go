package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"autorent/internal/auth"
	"autorent/internal/config"
	"autorent/internal/domain"
	"autorent/internal/export"

	"github.com/rs/zerolog"
)

// HTTPServer exposes the rental API over JSON/HTTP.
type HTTPServer struct {
	cfg           config.ServerConfig
	sessions      *auth.SessionAuthority
	users         domain.UserService
	fleet         domain.FleetService
	offices       domain.OfficeService
	reservations  domain.ReservationService
	favorites     domain.FavoriteService
	reviews       domain.ReviewService
	notifications domain.NotificationService
	assistant     domain.Assistant
	exporter      *export.Exporter
	limiter       *rateLimiter
	logger        *zerolog.Logger
	server        *http.Server
}

// Deps collects everything the server needs. The assistant and exporter are
// optional; their routes return 503 and 404 respectively when absent.
type Deps struct {
	Sessions      *auth.SessionAuthority
	Users         domain.UserService
	Fleet         domain.FleetService
	Offices       domain.OfficeService
	Reservations  domain.ReservationService
	Favorites     domain.FavoriteService
	Reviews       domain.ReviewService
	Notifications domain.NotificationService
	Assistant     domain.Assistant
	Exporter      *export.Exporter
}

func NewHTTPServer(cfg config.ServerConfig, deps Deps, logger *zerolog.Logger) *HTTPServer {
	srv := &HTTPServer{
		cfg:           cfg,
		sessions:      deps.Sessions,
		users:         deps.Users,
		fleet:         deps.Fleet,
		offices:       deps.Offices,
		reservations:  deps.Reservations,
		favorites:     deps.Favorites,
		reviews:       deps.Reviews,
		notifications: deps.Notifications,
		assistant:     deps.Assistant,
		exporter:      deps.Exporter,
		limiter:       newRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		logger:        logger,
	}

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return srv
}

// Handler builds the full route table wrapped in the middleware chain.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	// Auth
	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)
	mux.HandleFunc("GET /api/auth/me", s.requireUser(s.handleMe))

	// Catalog (public)
	mux.HandleFunc("GET /api/cars", s.handleListCars)
	mux.HandleFunc("GET /api/cars/{id}", s.handleGetCar)
	mux.HandleFunc("GET /api/cars/{id}/availability", s.handleCarAvailability)
	mux.HandleFunc("GET /api/cars/{id}/reviews", s.handleListReviews)
	mux.HandleFunc("POST /api/cars/{id}/reviews", s.requireUser(s.handleCreateReview))
	mux.HandleFunc("GET /api/offices", s.handleListOffices)
	mux.HandleFunc("GET /api/offices/{id}", s.handleGetOffice)

	// Reservations
	mux.HandleFunc("POST /api/reservations", s.requireUser(s.handleCreateReservation))
	mux.HandleFunc("GET /api/reservations", s.requireUser(s.handleMyReservations))
	mux.HandleFunc("POST /api/reservations/{id}/cancel", s.requireUser(s.handleCancelReservation))

	// Favorites and notifications
	mux.HandleFunc("POST /api/favorites/{carId}", s.requireUser(s.handleToggleFavorite))
	mux.HandleFunc("GET /api/favorites", s.requireUser(s.handleListFavorites))
	mux.HandleFunc("GET /api/notifications", s.requireUser(s.handleListNotifications))

	// Assistant
	mux.HandleFunc("POST /api/chat", s.handleChat)

	// Admin
	mux.HandleFunc("POST /api/admin/cars", s.requireAdmin(s.handleCreateCar))
	mux.HandleFunc("PUT /api/admin/cars/{id}", s.requireAdmin(s.handleUpdateCar))
	mux.HandleFunc("DELETE /api/admin/cars/{id}", s.requireAdmin(s.handleDeleteCar))
	mux.HandleFunc("POST /api/admin/offices", s.requireAdmin(s.handleCreateOffice))
	mux.HandleFunc("PUT /api/admin/offices/{id}", s.requireAdmin(s.handleUpdateOffice))
	mux.HandleFunc("DELETE /api/admin/offices/{id}", s.requireAdmin(s.handleDeleteOffice))
	mux.HandleFunc("GET /api/admin/reservations", s.requireAdmin(s.handleListReservations))
	mux.HandleFunc("POST /api/admin/reservations/{id}/status", s.requireAdmin(s.handleTransition))
	mux.HandleFunc("POST /api/admin/verify", s.requireAdmin(s.handleVerifyPickup))
	mux.HandleFunc("GET /api/admin/export", s.requireAdmin(s.handleExport))

	return s.accessLog(s.withSession(s.rateLimit(recordPattern(mux))))
}

func (s *HTTPServer) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
