// Command seed runs one full seed cycle against the configured store:
// truncate the three tables, then fetch, validate and insert crypto,
// weather and news rows. Missing credentials abort before any store
// mutation.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/nvoropaev/pulsefeed/internal/config"
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

	if err := cfg.RequireSeedCredentials(); err != nil {
		logger.Error("seeding aborted", zap.Error(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to postgres", zap.Error(err))
		os.Exit(1)
	}
	defer pool.Close()

	pgStore := postgres.New(pool, logger)
	if err := pgStore.EnsureSchema(ctx); err != nil {
		logger.Error("failed to ensure schema", zap.Error(err))
		os.Exit(1)
	}

	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	seed := seeder.New(
		pgStore,
		upstream.NewCoinGeckoClient(httpClient),
		upstream.NewOpenWeatherClient(httpClient, cfg.OpenWeatherAPIKey),
		upstream.NewNewsAPIClient(httpClient, cfg.NewsAPIKey),
		seeder.Options{
			Cities:       cfg.Cities,
			CryptoMode:   cfg.CryptoMode,
			CoinIDs:      cfg.CoinIDs,
			CryptoTopN:   cfg.CryptoTopN,
			NewsPageSize: cfg.NewsPageSize,
		},
		logger,
	)

	if err := seed.Run(ctx); err != nil {
		os.Exit(1)
	}
}
