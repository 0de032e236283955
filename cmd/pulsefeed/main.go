package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	httpapi "github.com/nvoropaev/pulsefeed/internal/api/http"
	"github.com/nvoropaev/pulsefeed/internal/config"
	"github.com/nvoropaev/pulsefeed/internal/feed"
	"github.com/nvoropaev/pulsefeed/internal/ratelimit"
	"github.com/nvoropaev/pulsefeed/internal/scheduler"
	"github.com/nvoropaev/pulsefeed/internal/seeder"
	"github.com/nvoropaev/pulsefeed/internal/store/postgres"
	"github.com/nvoropaev/pulsefeed/internal/upstream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	pgStore := postgres.New(pool, logger)
	if err := pgStore.EnsureSchema(ctx); err != nil {
		logger.Fatal("failed to ensure schema", zap.Error(err))
	}

	// Shared HTTP client for outbound upstream calls; the timeout bounds
	// every call so a hanging provider cannot block a handler forever.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	cryptoClient := upstream.NewCoinGeckoClient(httpClient)
	weatherClient := upstream.NewOpenWeatherClient(httpClient, cfg.OpenWeatherAPIKey)
	newsClient := upstream.NewNewsAPIClient(httpClient, cfg.NewsAPIKey)

	service := feed.NewService(pgStore, weatherClient, feed.Limits{
		Crypto:  cfg.CryptoLimit,
		Weather: cfg.WeatherLimit,
		News:    cfg.NewsLimit,
	}, logger)

	limiter := ratelimit.New(cfg.RateLimitQuota, cfg.RateLimitWindow)

	// Optional in-process reseed. Credentials are checked up front so a
	// misconfigured deployment fails loudly instead of on the first cycle.
	if cfg.SeedInterval > 0 {
		if err := cfg.RequireSeedCredentials(); err != nil {
			logger.Fatal("reseed scheduler enabled but not configured", zap.Error(err))
		}

		seed := seeder.New(pgStore, cryptoClient, weatherClient, newsClient, seeder.Options{
			Cities:       cfg.Cities,
			CryptoMode:   cfg.CryptoMode,
			CoinIDs:      cfg.CoinIDs,
			CryptoTopN:   cfg.CryptoTopN,
			NewsPageSize: cfg.NewsPageSize,
		}, logger)

		sched := scheduler.New(seed, cfg.SeedInterval, logger)
		if err := sched.Start(); err != nil {
			logger.Fatal("failed to start reseed scheduler", zap.Error(err))
		}
		defer sched.Stop()
	}

	app := fiber.New(fiber.Config{
		AppName:               "pulsefeed",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(httpapi.Metrics())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "pulsefeed",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpapi.RegisterRoutes(app, service, limiter, cfg.FallbackCity)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("fiber server stopped", zap.Error(err))
		}
	}()
	logger.Info("server listening", zap.String("port", cfg.Port))

	// Wait for termination signal.
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-sigCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
}
