// Package main provides the entry point for the lexiquiz backend server.
// It sets up the HTTP server, database connections, middleware, and API routes.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lexiquiz/internal/config"
	"lexiquiz/internal/di"
	"lexiquiz/internal/handlers"
	"lexiquiz/internal/observability"
	contextutils "lexiquiz/internal/utils"
	"lexiquiz/internal/version"

	"github.com/joho/godotenv"
)

// Application encapsulates the main application logic and can be tested
type Application struct {
	container di.ServiceContainerInterface
	server    *http.Server
}

// NewApplication creates a new application instance
func NewApplication(container di.ServiceContainerInterface) (*Application, error) {
	engine, err := container.GetSessionEngine()
	if err != nil {
		return nil, contextutils.WrapError(err, "failed to get session engine")
	}

	validator, err := container.GetSentenceValidator()
	if err != nil {
		return nil, contextutils.WrapError(err, "failed to get sentence validator")
	}

	reading, err := container.GetReadingService()
	if err != nil {
		return nil, contextutils.WrapError(err, "failed to get reading service")
	}

	cfg := container.GetConfig()
	router := handlers.NewRouter(cfg, engine, validator, reading, container.GetLogger())

	return &Application{
		container: container,
		server: &http.Server{
			Addr:              ":" + cfg.Server.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Run serves HTTP until ctx is cancelled or the listener fails
func (a *Application) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-serverErr:
		return contextutils.WrapError(err, "server failed")
	}
}

// Shutdown drains in-flight requests, then releases the container's resources
func (a *Application) Shutdown(ctx context.Context) error {
	serverErr := a.server.Shutdown(ctx)
	containerErr := a.container.Shutdown(ctx)
	return errors.Join(serverErr, containerErr)
}

func main() {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	cfg.OpenTelemetry.ServiceVersion = version.Version

	providers, err := observability.SetupObservability(&cfg.OpenTelemetry, "", observability.ParseLevel(cfg.Server.LogLevel))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize observability: %v\n", err)
		os.Exit(1)
	}
	logger := providers.Logger
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "Error shutting down observability: %v\n", err)
		}
	}()

	logger.Info(ctx, "Starting lexiquiz backend service", map[string]interface{}{
		"port":      cfg.Server.Port,
		"log_level": cfg.Server.LogLevel,
		"version":   version.Version,
		"redis":     cfg.Redis.Enabled(),
	})

	container := di.NewServiceContainer(cfg, logger, providers.Metrics)
	if err := container.Initialize(ctx); err != nil {
		logger.Error(ctx, "Failed to initialize services", err)
		os.Exit(1)
	}

	app, err := NewApplication(container)
	if err != nil {
		logger.Error(ctx, "Failed to create application", err)
		_ = container.Shutdown(context.Background())
		os.Exit(1)
	}

	runErr := app.Run(ctx)
	if runErr != nil {
		logger.Error(ctx, "Application failed", runErr)
	} else {
		logger.Info(context.Background(), "Received shutdown signal, shutting down gracefully")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "Error during application shutdown", err)
		os.Exit(1)
	}
	if runErr != nil {
		os.Exit(1)
	}

	logger.Info(shutdownCtx, "Shutdown completed successfully")
}
