package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	h "github.com/gorilla/handlers"
	"github.com/rs/zerolog"

	"github.com/jdragonx/sgcn-sgc-prototipo/internal/config"
	"github.com/jdragonx/sgcn-sgc-prototipo/internal/handlers"
	"github.com/jdragonx/sgcn-sgc-prototipo/internal/middleware"
	"github.com/jdragonx/sgcn-sgc-prototipo/internal/migration"
	"github.com/jdragonx/sgcn-sgc-prototipo/internal/notification"
	"github.com/jdragonx/sgcn-sgc-prototipo/internal/repository"
	"github.com/jdragonx/sgcn-sgc-prototipo/internal/routes"
	"github.com/jdragonx/sgcn-sgc-prototipo/internal/worker"

	_ "github.com/lib/pq" // PostgreSQL driver
)

type application struct {
	config        *config.Config
	db            *sql.DB
	logger        zerolog.Logger
	notifications notification.Service
	alerts        *notification.Alerts
}

func main() {
	// Set up structured, level-based logging.
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	logger := zerolog.New(consoleWriter).With().Timestamp().Logger()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.SetFlags(0)
	log.SetOutput(logger)

	// Load configuration.
	cfg := config.Load()

	// Initialize database connection.
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to the database")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to ping database")
	}

	// Run database migrations.
	migration.RunMigrations(cfg.DatabaseURL, logger)

	// Initialize the notification dispatch service and alert fan-out.
	notificationRepo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db)
	registry := notification.DefaultRegistry(cfg.Channels, logger)
	notificationService := notification.NewService(notificationRepo, registry, cfg.Notifier.DispatchTimeout, logger)
	alerts := notification.NewAlerts(userRepo, notificationService, logger)

	app := &application{
		config:        cfg,
		db:            db,
		logger:        logger,
		notifications: notificationService,
		alerts:        alerts,
	}

	// Start the background sweep worker.
	workerCtx, stopWorker := context.WithCancel(context.Background())
	sweepWorker := worker.New(worker.Config{
		SweepInterval:   cfg.Notifier.SweepInterval,
		CleanupInterval: cfg.Notifier.CleanupInterval,
		Retention:       time.Duration(cfg.Notifier.RetentionDays) * 24 * time.Hour,
	}, notificationService, logger)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		if err := sweepWorker.Start(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("notification worker exited with error")
		}
	}()

	// Initialize the HTTP router and middleware.
	router := app.initRouter(logger)
	loggedRouter := middleware.LoggingMiddleware(app.logger)(router)
	corsHandler := h.CORS(
		h.AllowedOrigins([]string{"http://localhost:3000"}),
		h.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		h.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		h.AllowCredentials(),
	)(loggedRouter)

	// Start the HTTP server and handle graceful shutdown.
	app.startServer(corsHandler, logger)

	// Stop the sweep worker once the server is down.
	stopWorker()
	<-workerDone

	logger.Info().Msg("Application terminated.")
}

// initRouter sets up all HTTP handlers and returns the router.
func (app *application) initRouter(logger zerolog.Logger) http.Handler {
	authHandler := handlers.NewAuthHandler(app.db, app.config, logger)
	notificationHandler := handlers.NewNotificationHandler(app.notifications, logger)
	alertHandler := handlers.NewAlertHandler(app.alerts, logger)

	return routes.NewRouter(authHandler, notificationHandler, alertHandler)
}

// startServer launches the HTTP server and blocks until shutdown completes.
func (app *application) startServer(handler http.Handler, logger zerolog.Logger) {
	server := &http.Server{
		Addr:    ":" + app.config.ServerPort,
		Handler: handler,
	}

	// Channel to listen for server errors
	serverErrCh := make(chan error, 1)
	go func() {
		logger.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
	}()

	// Wait for an interrupt signal or a server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info().Msgf("Received signal: %s. Shutting down...", sig)
	case err := <-serverErrCh:
		logger.Error().Err(err).Msg("Server error occurred")
	}

	// Gracefully shut down the HTTP server.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	} else {
		logger.Info().Msg("HTTP server shutdown complete.")
	}
}
