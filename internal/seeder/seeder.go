// Package seeder implements the one-shot seed cycle: truncate all three
// tables, then sequentially fetch, validate and insert crypto, weather
// and news rows. The cycle is not wrapped in a transaction: a failing
// step aborts the remaining steps and rows inserted by earlier steps
// remain in place.
package seeder

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nvoropaev/pulsefeed/internal/config"
	"github.com/nvoropaev/pulsefeed/internal/feed"
	"github.com/nvoropaev/pulsefeed/internal/observability"
	"github.com/nvoropaev/pulsefeed/internal/store"
)

// Options controls what a cycle fetches.
type Options struct {
	Cities       []string
	CryptoMode   string // config.CryptoModeSimple or config.CryptoModeMarkets
	CoinIDs      []string
	CryptoTopN   int
	NewsPageSize int
}

// Seeder runs seed cycles against the store.
type Seeder struct {
	store   store.Store
	crypto  feed.CryptoSource
	weather feed.WeatherSource
	news    feed.NewsSource
	opts    Options
	logger  *zap.Logger
}

func New(
	st store.Store,
	crypto feed.CryptoSource,
	weather feed.WeatherSource,
	news feed.NewsSource,
	opts Options,
	logger *zap.Logger,
) *Seeder {
	return &Seeder{
		store:   st,
		crypto:  crypto,
		weather: weather,
		news:    news,
		opts:    opts,
		logger:  logger,
	}
}

// Run executes one full seed cycle. The first step error ends the cycle.
func (s *Seeder) Run(ctx context.Context) error {
	cycle := uuid.NewString()
	logger := s.logger.With(zap.String("cycle", cycle))
	logger.Info("seed cycle started")

	if err := s.run(ctx, logger); err != nil {
		observability.SeedCyclesTotal.WithLabelValues("failure").Inc()
		logger.Error("seed cycle aborted", zap.Error(err))
		return err
	}

	observability.SeedCyclesTotal.WithLabelValues("success").Inc()
	logger.Info("seed cycle completed")
	return nil
}

func (s *Seeder) run(ctx context.Context, logger *zap.Logger) error {
	if err := s.store.TruncateAll(ctx); err != nil {
		return fmt.Errorf("truncate tables: %w", err)
	}

	if err := s.seedCrypto(ctx, logger); err != nil {
		observability.UpstreamFailuresTotal.WithLabelValues("crypto").Inc()
		return fmt.Errorf("seed crypto: %w", err)
	}
	if err := s.seedWeather(ctx, logger); err != nil {
		observability.UpstreamFailuresTotal.WithLabelValues("weather").Inc()
		return fmt.Errorf("seed weather: %w", err)
	}
	if err := s.seedNews(ctx, logger); err != nil {
		observability.UpstreamFailuresTotal.WithLabelValues("news").Inc()
		return fmt.Errorf("seed news: %w", err)
	}
	return nil
}

func (s *Seeder) seedCrypto(ctx context.Context, logger *zap.Logger) error {
	var (
		quotes []feed.CryptoQuote
		err    error
	)
	if s.opts.CryptoMode == config.CryptoModeSimple {
		quotes, err = s.crypto.SimplePrices(ctx, s.opts.CoinIDs)
	} else {
		quotes, err = s.crypto.TopMarkets(ctx, s.opts.CryptoTopN)
	}
	if err != nil {
		return err
	}

	records := make([]feed.CryptoRecord, 0, len(quotes))
	for _, q := range quotes {
		records = append(records, feed.CryptoRecord{
			Name:      q.Name,
			Symbol:    q.Symbol,
			Price:     q.Price,
			MarketCap: q.MarketCap,
			Change24h: q.Change24h,
			Volume24h: q.Volume24h,
			Sparkline: q.Sparkline,
			FetchedAt: q.FetchedAt,
		})
	}
	if err := s.store.InsertCrypto(ctx, records); err != nil {
		return err
	}

	logger.Info("seeded crypto rows", zap.Int("count", len(records)))
	return nil
}

func (s *Seeder) seedWeather(ctx context.Context, logger *zap.Logger) error {
	records := make([]feed.WeatherRecord, 0, len(s.opts.Cities))
	for _, city := range s.opts.Cities {
		reading, err := s.weather.Current(ctx, city)
		if err != nil {
			return fmt.Errorf("fetch weather for %s: %w", city, err)
		}
		records = append(records, feed.WeatherRecord{
			City:        reading.City,
			Temperature: reading.Temperature,
			Condition:   reading.Condition,
			Humidity:    reading.Humidity,
			WindSpeed:   reading.WindSpeed,
			FetchedAt:   reading.FetchedAt,
		})
	}
	if err := s.store.InsertWeather(ctx, records); err != nil {
		return err
	}

	logger.Info("seeded weather rows", zap.Int("count", len(records)))
	return nil
}

func (s *Seeder) seedNews(ctx context.Context, logger *zap.Logger) error {
	headlines, err := s.news.TopHeadlines(ctx, s.opts.NewsPageSize)
	if err != nil {
		return err
	}

	records := make([]feed.NewsRecord, 0, len(headlines))
	for _, h := range headlines {
		records = append(records, feed.NewsRecord{
			Title:     h.Title,
			Source:    h.Source,
			URL:       h.URL,
			FetchedAt: h.FetchedAt,
		})
	}
	if err := s.store.InsertNews(ctx, records); err != nil {
		return err
	}

	logger.Info("seeded news rows", zap.Int("count", len(records)))
	return nil
}
