package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	httpapi "driveline-backend/internal/api/http"
	"driveline-backend/internal/config"
	"driveline-backend/internal/logger"
	"driveline-backend/internal/repository/postgres"
	"driveline-backend/internal/security"
	"driveline-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Driveline Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)

	// Initialize routed-distance estimates (optional)
	var estimator service.DistanceEstimator
	if cfg.Maps.APIKey != "" {
		estimator, err = service.NewGoogleDistanceEstimator(cfg.Maps.APIKey)
		if err != nil {
			logger.Error("Failed to initialize maps client, routed estimates disabled", "error", err)
			estimator = nil
		}
	} else {
		logger.Info("No maps API key configured, routed estimates disabled")
	}

	// Initialize Services
	emailSvc := service.NewSendGridEmailService(
		cfg.SendGrid.APIKey,
		cfg.SendGrid.FromEmail,
		cfg.SendGrid.FromName,
	)
	notificationSvc := service.NewNotificationService(
		store.NotificationRepository,
		store.CustomerRepository,
		emailSvc,
	)
	loyaltySvc := service.NewLoyaltyService(store.LoyaltyRepository, store.SettingsRepository)
	quoteSvc := service.NewQuoteService(store.BookingRepository, store.RateSheetRepository)
	bookingSvc := service.NewBookingService(
		store.BookingRepository,
		store.RateSheetRepository,
		store.LedgerRepository,
		store.DamageRepository,
		store.VehicleRepository,
		store.AlertRepository,
		store.AuditRepository,
		loyaltySvc,
		notificationSvc,
	)
	breakdownSvc := service.NewBreakdownService(
		store.BookingRepository,
		store.RateSheetRepository,
		store.AlertRepository,
		cfg.Billing.ItemizationCutover,
	)
	dispatchSvc := service.NewDispatchService(
		store.BookingRepository,
		store.PrepPhotoRepository,
		store.AlertRepository,
		store.AuditRepository,
		notificationSvc,
		tokenManager,
		cfg.Dispatch.TrackingBaseURL,
		cfg.Dispatch.MinPrepPhotos,
	)
	deliverySvc := service.NewDeliveryService(store.LocationRepository, store.RateSheetRepository, estimator)

	// Initialize HTTP handlers
	handlers := httpapi.Handlers{
		Booking:  httpapi.NewBookingHandler(bookingSvc, breakdownSvc),
		Quote:    httpapi.NewQuoteHandler(quoteSvc),
		Dispatch: httpapi.NewDispatchHandler(dispatchSvc),
		Delivery: httpapi.NewDeliveryHandler(deliverySvc),
		Ops:      httpapi.NewOpsHandler(store.AlertRepository, loyaltySvc),
	}
	router := httpapi.NewRouter(handlers, tokenManager)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
