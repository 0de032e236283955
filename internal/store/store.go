// Package store defines the contract the relational store must satisfy
// for the seeder (bulk writes) and the aggregation gateway (bounded reads).
package store

import (
	"context"

	"github.com/nvoropaev/pulsefeed/internal/feed"
)

// Store is implemented by the Postgres store and the in-memory store used
// in tests. Read ordering is fixed: crypto ascending by fetch time, weather
// and news descending by fetch time.
type Store interface {
	// TruncateAll clears all three tables. Runs at the start of a seed cycle.
	TruncateAll(ctx context.Context) error

	InsertCrypto(ctx context.Context, records []feed.CryptoRecord) error
	InsertWeather(ctx context.Context, records []feed.WeatherRecord) error
	InsertNews(ctx context.Context, records []feed.NewsRecord) error

	// UpsertWeather inserts the record or, when a row for the same city
	// already exists, replaces its fields and refreshes the timestamp.
	UpsertWeather(ctx context.Context, record feed.WeatherRecord) error

	// ListCrypto returns up to limit rows ordered by fetched_at ascending.
	ListCrypto(ctx context.Context, limit int) ([]feed.CryptoRecord, error)
	// ListWeather returns up to limit rows ordered by fetched_at descending.
	ListWeather(ctx context.Context, limit int) ([]feed.WeatherRecord, error)
	// ListNews returns up to limit rows ordered by fetched_at descending.
	ListNews(ctx context.Context, limit int) ([]feed.NewsRecord, error)
}
