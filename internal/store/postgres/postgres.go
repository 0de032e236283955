// Package postgres implements the store contract on top of a pgx
// connection pool.
package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/nvoropaev/pulsefeed/internal/feed"
	"github.com/nvoropaev/pulsefeed/internal/store"
)

//go:embed schema.sql
var schemaSQL string

// Store is the PostgreSQL-backed implementation of store.Store.
type Store struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

var _ store.Store = (*Store)(nil)

// NewPool connects to Postgres and verifies the connection.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return pool, nil
}

// New creates a Store on top of an existing pool.
func New(pool *pgxpool.Pool, logger *zap.Logger) *Store {
	return &Store{pool: pool, logger: logger}
}

// EnsureSchema creates the three tables if they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// TruncateAll clears all three tables and restarts their id sequences.
func (s *Store) TruncateAll(ctx context.Context) error {
	query := `TRUNCATE crypto_prices, weather_snapshots, news_articles RESTART IDENTITY`
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("truncate tables: %w", err)
	}
	return nil
}

func (s *Store) InsertCrypto(ctx context.Context, records []feed.CryptoRecord) error {
	query := `
		INSERT INTO crypto_prices (name, symbol, price, market_cap, change_24h, volume_24h, sparkline, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, r := range records {
		_, err := s.pool.Exec(ctx, query,
			r.Name,
			r.Symbol,
			r.Price,
			r.MarketCap,
			r.Change24h,
			r.Volume24h,
			r.Sparkline,
			r.FetchedAt,
		)
		if err != nil {
			s.logger.Error("failed to insert crypto row", zap.String("symbol", r.Symbol), zap.Error(err))
			return fmt.Errorf("insert crypto row: %w", err)
		}
	}
	return nil
}

func (s *Store) InsertWeather(ctx context.Context, records []feed.WeatherRecord) error {
	query := `
		INSERT INTO weather_snapshots (city, temperature, condition, humidity, wind_speed, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for _, r := range records {
		_, err := s.pool.Exec(ctx, query,
			r.City,
			r.Temperature,
			r.Condition,
			r.Humidity,
			r.WindSpeed,
			r.FetchedAt,
		)
		if err != nil {
			s.logger.Error("failed to insert weather row", zap.String("city", r.City), zap.Error(err))
			return fmt.Errorf("insert weather row: %w", err)
		}
	}
	return nil
}

func (s *Store) InsertNews(ctx context.Context, records []feed.NewsRecord) error {
	query := `
		INSERT INTO news_articles (title, source, url, fetched_at)
		VALUES ($1, $2, $3, $4)
	`

	for _, r := range records {
		_, err := s.pool.Exec(ctx, query,
			r.Title,
			r.Source,
			r.URL,
			r.FetchedAt,
		)
		if err != nil {
			s.logger.Error("failed to insert news row", zap.String("url", r.URL), zap.Error(err))
			return fmt.Errorf("insert news row: %w", err)
		}
	}
	return nil
}

// UpsertWeather inserts the record or updates the existing row for the
// same city, refreshing the fetch timestamp.
func (s *Store) UpsertWeather(ctx context.Context, record feed.WeatherRecord) error {
	query := `
		INSERT INTO weather_snapshots (city, temperature, condition, humidity, wind_speed, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (city) DO UPDATE SET
			temperature = EXCLUDED.temperature,
			condition   = EXCLUDED.condition,
			humidity    = EXCLUDED.humidity,
			wind_speed  = EXCLUDED.wind_speed,
			fetched_at  = EXCLUDED.fetched_at
	`

	_, err := s.pool.Exec(ctx, query,
		record.City,
		record.Temperature,
		record.Condition,
		record.Humidity,
		record.WindSpeed,
		record.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert weather row: %w", err)
	}
	return nil
}

// ListCrypto returns up to limit rows ordered by fetched_at ascending.
func (s *Store) ListCrypto(ctx context.Context, limit int) ([]feed.CryptoRecord, error) {
	query := `
		SELECT id, name, symbol, price, market_cap, change_24h, volume_24h, sparkline, fetched_at
		FROM crypto_prices
		ORDER BY fetched_at ASC, id ASC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list crypto rows: %w", err)
	}
	defer rows.Close()

	var records []feed.CryptoRecord
	for rows.Next() {
		var r feed.CryptoRecord
		err := rows.Scan(
			&r.ID,
			&r.Name,
			&r.Symbol,
			&r.Price,
			&r.MarketCap,
			&r.Change24h,
			&r.Volume24h,
			&r.Sparkline,
			&r.FetchedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan crypto row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate crypto rows: %w", err)
	}
	return records, nil
}

// ListWeather returns up to limit rows ordered by fetched_at descending.
func (s *Store) ListWeather(ctx context.Context, limit int) ([]feed.WeatherRecord, error) {
	query := `
		SELECT id, city, temperature, condition, humidity, wind_speed, fetched_at
		FROM weather_snapshots
		ORDER BY fetched_at DESC, id DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list weather rows: %w", err)
	}
	defer rows.Close()

	var records []feed.WeatherRecord
	for rows.Next() {
		var r feed.WeatherRecord
		err := rows.Scan(
			&r.ID,
			&r.City,
			&r.Temperature,
			&r.Condition,
			&r.Humidity,
			&r.WindSpeed,
			&r.FetchedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan weather row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate weather rows: %w", err)
	}
	return records, nil
}

// ListNews returns up to limit rows ordered by fetched_at descending.
func (s *Store) ListNews(ctx context.Context, limit int) ([]feed.NewsRecord, error) {
	query := `
		SELECT id, title, source, url, fetched_at
		FROM news_articles
		ORDER BY fetched_at DESC, id DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list news rows: %w", err)
	}
	defer rows.Close()

	var records []feed.NewsRecord
	for rows.Next() {
		var r feed.NewsRecord
		err := rows.Scan(
			&r.ID,
			&r.Title,
			&r.Source,
			&r.URL,
			&r.FetchedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan news row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate news rows: %w", err)
	}
	return records, nil
}
