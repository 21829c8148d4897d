package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"autorent/internal/api"
	"autorent/internal/assistant"
	"autorent/internal/auth"
	"autorent/internal/config"
	"autorent/internal/database"
	"autorent/internal/events"
	"autorent/internal/export"
	"autorent/internal/logging"
	"autorent/internal/metrics"
	"autorent/internal/models"
	"autorent/internal/repository"
	"autorent/internal/service"
	"autorent/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	if err := seed(cfg, db, &logger); err != nil {
		return err
	}

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}
	stateRepo := buildStateRepository(redisClient, &logger)

	bus := events.NewEventBus()

	sessions, err := auth.NewSessionAuthority(cfg.Auth.SessionSecret, time.Duration(cfg.Auth.SessionTTLHours)*time.Hour)
	if err != nil {
		return fmt.Errorf("init session authority: %w", err)
	}

	reservationSvc := service.NewReservationService(db, bus, &logger)
	fleetSvc := service.NewFleetService(db, &logger)
	officeSvc := service.NewOfficeService(db, &logger)

	deps := api.Deps{
		Sessions:      sessions,
		Users:         service.NewUserService(db, &logger),
		Fleet:         fleetSvc,
		Offices:       officeSvc,
		Reservations:  reservationSvc,
		Favorites:     service.NewFavoriteService(db, &logger),
		Reviews:       service.NewReviewService(db, &logger),
		Notifications: service.NewNotificationService(db, &logger),
		Exporter:      export.NewExporter(db, cfg.Exports.Path, &logger),
	}

	if cfg.Assistant.Enabled {
		completer := assistant.NewGroqClient(cfg.Assistant.BaseURL, cfg.Assistant.APIKey, cfg.Assistant.Model)
		deps.Assistant = assistant.New(completer, fleetSvc, officeSvc, reservationSvc, stateRepo, &logger)
		logger.Info().Str("model", cfg.Assistant.Model).Msg("assistant enabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	notifier := worker.NewNotifier(db, worker.DefaultRetryPolicy, &logger)
	notifier.Bind(bus)
	go notifier.Start(ctx)

	startMetrics(ctx, cfg, &logger)

	httpServer := api.NewHTTPServer(cfg.Server, deps, &logger)
	return serve(ctx, httpServer, cfg, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := logging.Component(baseLogger, "api-main")

	return cfg, logger, closer, nil
}

// fleetSeed is the shape of configs/fleet.yaml.
type fleetSeed struct {
	Offices []models.Office `yaml:"offices"`
	Cars    []models.Car    `yaml:"cars"`
}

// seed creates the admin account and, on an empty database, the initial
// offices and cars from the fleet file.
func seed(cfg *config.Config, db *database.DB, logger *zerolog.Logger) error {
	ctx := context.Background()

	if cfg.Seed.AdminEmail != "" && cfg.Seed.AdminPassword != "" {
		if _, err := db.GetUserByEmail(ctx, cfg.Seed.AdminEmail); errors.Is(err, database.ErrNotFound) {
			hash, err := auth.HashPassword(cfg.Seed.AdminPassword)
			if err != nil {
				return fmt.Errorf("hash admin password: %w", err)
			}
			name := cfg.Seed.AdminName
			if name == "" {
				name = "Administrator"
			}
			now := time.Now()
			admin := &models.User{
				Email: cfg.Seed.AdminEmail, Name: name, Password: hash,
				Role: models.RoleAdmin, CreatedAt: now, UpdatedAt: now,
			}
			if err := db.CreateUser(ctx, admin); err != nil {
				return fmt.Errorf("seed admin: %w", err)
			}
			logger.Info().Str("email", admin.Email).Msg("admin account created")
		}
	}

	if cfg.Seed.FleetPath == "" {
		return nil
	}
	offices, err := db.ListOffices(ctx)
	if err != nil {
		return err
	}
	if len(offices) > 0 {
		return nil
	}

	data, err := os.ReadFile(cfg.Seed.FleetPath)
	if err != nil {
		logger.Warn().Err(err).Str("fleet_path", cfg.Seed.FleetPath).Msg("fleet seed skipped")
		return nil
	}

	var fleet fleetSeed
	if err := yaml.Unmarshal(data, &fleet); err != nil {
		return fmt.Errorf("parse fleet seed: %w", err)
	}

	now := time.Now()
	for i := range fleet.Offices {
		office := fleet.Offices[i]
		office.CreatedAt = now
		office.UpdatedAt = now
		if err := db.CreateOffice(ctx, &office); err != nil {
			return fmt.Errorf("seed office %q: %w", office.Name, err)
		}
	}
	for i := range fleet.Cars {
		car := fleet.Cars[i]
		car.CreatedAt = now
		car.UpdatedAt = now
		if err := db.CreateCar(ctx, &car); err != nil {
			return fmt.Errorf("seed car %q %q: %w", car.Make, car.Model, err)
		}
	}

	logger.Info().Int("offices", len(fleet.Offices)).Int("cars", len(fleet.Cars)).Msg("fleet seeded")
	return nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(context.Background(), redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

// buildStateRepository prefers Redis for assistant state and falls back to
// memory, with automatic failover when Redis drops mid-flight.
func buildStateRepository(redisClient *redis.Client, logger *zerolog.Logger) *repository.FailoverStateRepository {
	ttl := time.Duration(models.ChatStateTTL) * time.Second
	memory := repository.NewMemoryStateRepository(ttl)
	if redisClient == nil {
		return repository.NewFailoverStateRepository(memory, memory, logger)
	}
	primary := repository.NewRedisStateRepository(redisClient, ttl)
	return repository.NewFailoverStateRepository(primary, memory, logger)
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, logger)
}

func serve(ctx context.Context, httpServer *api.HTTPServer, cfg *config.Config, logger *zerolog.Logger) error {
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("http_port", cfg.Server.Port).Msg("API server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeoutMS)*time.Millisecond)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown error")
	}

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
