package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/havenwell/waypoint/internal/cache"
	"github.com/havenwell/waypoint/internal/config"
	"github.com/havenwell/waypoint/internal/geocoding"
	"github.com/havenwell/waypoint/internal/metrics"
	"github.com/havenwell/waypoint/internal/models"
	"github.com/havenwell/waypoint/internal/ratelimit"
	"github.com/havenwell/waypoint/internal/repository"
	"github.com/havenwell/waypoint/internal/server"
	"github.com/havenwell/waypoint/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	// Create a separate registry for application metrics.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	// Initialize the database connection for the location directory.
	dtb, err := repository.NewDatabase(
		ctx, cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
	)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer dtb.Close()

	repo := repository.NewRepository(dtb, logger)

	// Build the geocoder chain from whichever credentials are present.
	// A missing Mapbox token is a valid configuration: lookups fall
	// straight through to the secondary provider.
	primary, secondary := buildProviders(cfg, logger)
	if primary == nil && secondary == nil {
		logger.Warn("No geocoding credentials configured; all lookups will degrade to national resources")
	}

	configuredGeocoder := models.GeocoderSecondary
	if primary != nil {
		configuredGeocoder = models.GeocoderPrimary
	}

	orchestrator := geocoding.NewOrchestrator(geocoding.OrchestratorConfig{
		Primary:   primary,
		Secondary: secondary,
		Logger:    logger,
		Metrics:   appMetrics,
	})

	// Select the cache backend: Redis when configured, in-memory otherwise.
	var store cache.Store
	if cfg.RedisAddr != "" {
		store = cache.NewRedisStore(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
		logger.InfoContext(ctx, "Result cache backend initialized", "backend", "redis", "addr", cfg.RedisAddr)
	} else {
		store = cache.NewMemoryStore(nil)
		logger.InfoContext(ctx, "Result cache backend initialized", "backend", "memory")
	}

	limiter := ratelimit.New(cfg.RateLimit, cfg.RateWindow, nil)

	resolver := service.NewResolver(
		logger,
		repo,
		orchestrator,
		store,
		limiter,
		appMetrics,
		service.NewLogRecorder(logger),
		configuredGeocoder,
		cfg.CacheTTL,
		cfg.DegradedCacheTTL,
	)

	srv := server.NewServer(fmt.Sprintf(":%d", cfg.Port), resolver, reg, logger)

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.",
		"port", cfg.Port, "geocoder", configuredGeocoder)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.ErrorContext(ctx, "HTTP server failed", "error", err)
			stop()
		}
	}()

	// Wait for the context to be canceled (e.g., by Ctrl+C).
	<-ctx.Done()

	logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}

	logger.Info("Application stopped gracefully.")
}

// buildProviders creates the provider chain from present credentials.
func buildProviders(cfg *config.Config, logger *slog.Logger) (geocoding.Provider, geocoding.Provider) {
	var primary, secondary geocoding.Provider

	if cfg.MapboxToken != "" {
		provider, err := geocoding.NewProvider(geocoding.ProviderConfig{
			Type:      geocoding.ProviderTypeMapbox,
			APIKey:    cfg.MapboxToken,
			RateLimit: cfg.ProviderRateLimit,
			Logger:    logger,
		})
		if err != nil {
			log.Fatalf("Failed to create Mapbox provider: %v", err)
		}
		primary = provider
	}

	if cfg.GoogleAPIKey != "" {
		provider, err := geocoding.NewProvider(geocoding.ProviderConfig{
			Type:   geocoding.ProviderTypeGoogle,
			APIKey: cfg.GoogleAPIKey,
			Logger: logger,
		})
		if err != nil {
			log.Fatalf("Failed to create Google provider: %v", err)
		}
		secondary = provider
	}

	return primary, secondary
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var logger *slog.Logger

	switch env {
	case envLocal:
		logger = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case envProd:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelWarn,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelError,
			}),
		)

		logger.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return logger
}
