// Package memory holds a concurrency-safe in-memory implementation of the
// store contract, used by tests and by local runs without a database.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/nvoropaev/pulsefeed/internal/feed"
	"github.com/nvoropaev/pulsefeed/internal/store"
)

// Store keeps the three tables as slices guarded by a single mutex.
// IDs are assigned from a per-table counter, mirroring the BIGSERIAL
// columns of the Postgres store.
type Store struct {
	mu sync.RWMutex

	crypto  []feed.CryptoRecord
	weather []feed.WeatherRecord
	news    []feed.NewsRecord

	nextCryptoID  int64
	nextWeatherID int64
	nextNewsID    int64
}

var _ store.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		nextCryptoID:  1,
		nextWeatherID: 1,
		nextNewsID:    1,
	}
}

// TruncateAll clears all three tables and resets the id counters.
func (s *Store) TruncateAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.crypto = nil
	s.weather = nil
	s.news = nil
	s.nextCryptoID = 1
	s.nextWeatherID = 1
	s.nextNewsID = 1
	return nil
}

func (s *Store) InsertCrypto(_ context.Context, records []feed.CryptoRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		r.ID = s.nextCryptoID
		s.nextCryptoID++
		s.crypto = append(s.crypto, r)
	}
	return nil
}

func (s *Store) InsertWeather(_ context.Context, records []feed.WeatherRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		r.ID = s.nextWeatherID
		s.nextWeatherID++
		s.weather = append(s.weather, r)
	}
	return nil
}

func (s *Store) InsertNews(_ context.Context, records []feed.NewsRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		r.ID = s.nextNewsID
		s.nextNewsID++
		s.news = append(s.news, r)
	}
	return nil
}

// UpsertWeather replaces the row for the record's city when present,
// keeping the existing id; otherwise it inserts a new row.
func (s *Store) UpsertWeather(_ context.Context, record feed.WeatherRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.weather {
		if s.weather[i].City == record.City {
			record.ID = s.weather[i].ID
			s.weather[i] = record
			return nil
		}
	}

	record.ID = s.nextWeatherID
	s.nextWeatherID++
	s.weather = append(s.weather, record)
	return nil
}

// ListCrypto returns up to limit rows ordered by fetched_at ascending.
func (s *Store) ListCrypto(_ context.Context, limit int) ([]feed.CryptoRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]feed.CryptoRecord, len(s.crypto))
	copy(out, s.crypto)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FetchedAt.Before(out[j].FetchedAt)
	})
	return clamp(out, limit), nil
}

// ListWeather returns up to limit rows ordered by fetched_at descending.
func (s *Store) ListWeather(_ context.Context, limit int) ([]feed.WeatherRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]feed.WeatherRecord, len(s.weather))
	copy(out, s.weather)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FetchedAt.After(out[j].FetchedAt)
	})
	return clamp(out, limit), nil
}

// ListNews returns up to limit rows ordered by fetched_at descending.
func (s *Store) ListNews(_ context.Context, limit int) ([]feed.NewsRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]feed.NewsRecord, len(s.news))
	copy(out, s.news)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FetchedAt.After(out[j].FetchedAt)
	})
	return clamp(out, limit), nil
}

func clamp[T any](rows []T, limit int) []T {
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}
