package feed

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Reader is the slice of the store contract the gateway consumes.
type Reader interface {
	ListCrypto(ctx context.Context, limit int) ([]CryptoRecord, error)
	ListWeather(ctx context.Context, limit int) ([]WeatherRecord, error)
	ListNews(ctx context.Context, limit int) ([]NewsRecord, error)
	UpsertWeather(ctx context.Context, record WeatherRecord) error
}

// Limits bounds the row counts read per table by the aggregation endpoint.
type Limits struct {
	Crypto  int
	Weather int
	News    int
}

// DefaultLimits matches the table sizes a default seed cycle produces.
var DefaultLimits = Limits{Crypto: 10, Weather: 10, News: 10}

// Service is the aggregation gateway core: it composes the three tables
// into one view and serves the dynamic per-city weather path.
type Service struct {
	store   Reader
	weather WeatherSource
	limits  Limits
	logger  *zap.Logger
}

// NewService creates a Service. Zero-valued limits fall back to DefaultLimits.
func NewService(store Reader, weather WeatherSource, limits Limits, logger *zap.Logger) *Service {
	if limits.Crypto <= 0 {
		limits.Crypto = DefaultLimits.Crypto
	}
	if limits.Weather <= 0 {
		limits.Weather = DefaultLimits.Weather
	}
	if limits.News <= 0 {
		limits.News = DefaultLimits.News
	}
	return &Service{
		store:   store,
		weather: weather,
		limits:  limits,
		logger:  logger,
	}
}

// Aggregate reads all three tables and composes them into one object.
// Returns ErrNoData when any table is empty: that signals the seeder has
// not run or produced no rows, not a transient condition.
func (s *Service) Aggregate(ctx context.Context) (AggregatedData, error) {
	crypto, err := s.store.ListCrypto(ctx, s.limits.Crypto)
	if err != nil {
		return AggregatedData{}, fmt.Errorf("read crypto rows: %w", err)
	}

	weather, err := s.store.ListWeather(ctx, s.limits.Weather)
	if err != nil {
		return AggregatedData{}, fmt.Errorf("read weather rows: %w", err)
	}

	news, err := s.store.ListNews(ctx, s.limits.News)
	if err != nil {
		return AggregatedData{}, fmt.Errorf("read news rows: %w", err)
	}

	if len(crypto) == 0 || len(weather) == 0 || len(news) == 0 {
		return AggregatedData{}, ErrNoData
	}

	return AggregatedData{
		Crypto:     crypto,
		Weather:    weather,
		LatestNews: news,
	}, nil
}

// CurrentWeather fetches the city's weather from the upstream source,
// persists it via upsert keyed by city, and returns the reading. Nothing
// is written when the upstream payload is rejected.
func (s *Service) CurrentWeather(ctx context.Context, city string) (WeatherReading, error) {
	reading, err := s.weather.Current(ctx, city)
	if err != nil {
		return WeatherReading{}, err
	}

	record := WeatherRecord{
		City:        reading.City,
		Temperature: reading.Temperature,
		Condition:   reading.Condition,
		Humidity:    reading.Humidity,
		WindSpeed:   reading.WindSpeed,
		FetchedAt:   reading.FetchedAt,
	}
	if err := s.store.UpsertWeather(ctx, record); err != nil {
		return WeatherReading{}, fmt.Errorf("persist weather for %s: %w", reading.City, err)
	}

	s.logger.Debug("stored weather reading",
		zap.String("city", reading.City),
		zap.Float64("temperature", reading.Temperature))

	return reading, nil
}
