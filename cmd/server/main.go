package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/bobby-s-dev/life-dashboard/internal/api"
	"github.com/bobby-s-dev/life-dashboard/internal/config"
	"github.com/bobby-s-dev/life-dashboard/internal/fire"
	"github.com/bobby-s-dev/life-dashboard/internal/observability"
	"github.com/bobby-s-dev/life-dashboard/internal/scheduler"
	"github.com/bobby-s-dev/life-dashboard/internal/services"
	"github.com/bobby-s-dev/life-dashboard/pkg/client"
)

func main() {
	// Initialize logger
	logger := observability.NewLogger(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	zap.ReplaceGlobals(logger)
	logger.Info("Starting Life Dashboard API")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	locations, err := config.LoadLocations(cfg.WeatherAPI.LocationsFile)
	if err != nil {
		logger.Fatal("Failed to load locations", zap.Error(err))
	}
	logger.Info("Locations loaded", zap.Int("count", len(locations)))

	metrics := observability.NewMetrics()

	fireService := fire.NewService(fire.Config{
		BanURL:     cfg.Fire.BanFeedURL,
		RatingsURL: cfg.Fire.RatingsFeedURL,
		UserAgent:  cfg.Fire.UserAgent,
		Timeout:    cfg.Fire.FetchTimeout,
	}, logger, metrics)

	openMeteo := client.NewOpenMeteoClient(
		cfg.WeatherAPI.OpenMeteoURL,
		cfg.WeatherAPI.GeocodeURL,
		cfg.WeatherAPI.RateLimit,
		cfg.WeatherAPI.RateBurst,
		client.ClientConfig{
			Timeout:        cfg.WeatherAPI.Timeout,
			Threshold:      cfg.CircuitBreaker.Threshold,
			BreakerTimeout: cfg.CircuitBreaker.Timeout,
		},
		logger,
	)

	geocodeCache := services.NewGeocodeCache(cfg.Cache.Duration, cfg.Cache.MaxSize, logger)
	defer geocodeCache.Stop()

	aggregator := services.NewAggregator(openMeteo, fireService, geocodeCache, locations, logger, metrics)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: api.ErrorHandler(logger),
	})

	handler := api.NewHandler(aggregator, logger)
	api.SetupRoutes(app, handler, cfg.Server.CORSAllowOrigins, logger)

	var fireWatch *scheduler.FireWatch
	if cfg.Fire.WatchSchedule != "" {
		fireWatch = scheduler.NewFireWatch(fireService, locations, cfg.Fire.WatchSchedule, metrics, logger)
		if err := fireWatch.Start(); err != nil {
			logger.Fatal("Failed to start fire watch", zap.Error(err))
		}
	}

	// Start server in goroutine
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info("Starting server", zap.String("address", addr))

		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if fireWatch != nil {
		fireWatch.Stop()
	}

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}

	logger.Info("Server stopped")
}
