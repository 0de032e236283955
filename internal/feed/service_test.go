package feed_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nvoropaev/pulsefeed/internal/feed"
	"github.com/nvoropaev/pulsefeed/internal/store/memory"
)

type stubWeather struct {
	reading feed.WeatherReading
	err     error
}

func (s *stubWeather) Current(_ context.Context, city string) (feed.WeatherReading, error) {
	if s.err != nil {
		return feed.WeatherReading{}, s.err
	}
	r := s.reading
	r.City = city
	return r, nil
}

func seedAll(t *testing.T, st *memory.Store) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, st.InsertCrypto(ctx, []feed.CryptoRecord{{Name: "Bitcoin", Symbol: "BTC", Price: 50000, MarketCap: 1e12, FetchedAt: now}}))
	require.NoError(t, st.InsertWeather(ctx, []feed.WeatherRecord{{City: "London", Temperature: 18, Condition: "Clear", FetchedAt: now}}))
	require.NoError(t, st.InsertNews(ctx, []feed.NewsRecord{{Title: "t", Source: "s", URL: "https://example.com", FetchedAt: now}}))
}

func TestAggregateErrNoDataWhenAnyTableEmpty(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	cases := []struct {
		name string
		seed func(st *memory.Store)
	}{
		{"all empty", func(*memory.Store) {}},
		{"missing weather", func(st *memory.Store) {
			require.NoError(t, st.InsertCrypto(ctx, []feed.CryptoRecord{{Symbol: "BTC", FetchedAt: now}}))
			require.NoError(t, st.InsertNews(ctx, []feed.NewsRecord{{Title: "t", FetchedAt: now}}))
		}},
		{"missing crypto", func(st *memory.Store) {
			require.NoError(t, st.InsertWeather(ctx, []feed.WeatherRecord{{City: "Oslo", FetchedAt: now}}))
			require.NoError(t, st.InsertNews(ctx, []feed.NewsRecord{{Title: "t", FetchedAt: now}}))
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := memory.New()
			tc.seed(st)
			svc := feed.NewService(st, &stubWeather{}, feed.Limits{}, zap.NewNop())

			_, err := svc.Aggregate(ctx)
			require.ErrorIs(t, err, feed.ErrNoData)
		})
	}
}

func TestAggregateComposesAllThreeTables(t *testing.T) {
	st := memory.New()
	seedAll(t, st)
	svc := feed.NewService(st, &stubWeather{}, feed.Limits{}, zap.NewNop())

	data, err := svc.Aggregate(context.Background())
	require.NoError(t, err)
	require.Len(t, data.Crypto, 1)
	require.Len(t, data.Weather, 1)
	require.Len(t, data.LatestNews, 1)
	require.Equal(t, "BTC", data.Crypto[0].Symbol)
}

func TestCurrentWeatherUpsertRoundTrip(t *testing.T) {
	st := memory.New()
	seedAll(t, st)

	src := &stubWeather{reading: feed.WeatherReading{
		Temperature: 25.5,
		Condition:   "Clouds",
		FetchedAt:   time.Now().UTC(),
	}}
	svc := feed.NewService(st, src, feed.Limits{}, zap.NewNop())
	ctx := context.Background()

	reading, err := svc.CurrentWeather(ctx, "London")
	require.NoError(t, err)
	require.Equal(t, "London", reading.City)

	// The aggregation read reflects the updated row exactly once.
	data, err := svc.Aggregate(ctx)
	require.NoError(t, err)
	require.Len(t, data.Weather, 1)
	require.Equal(t, 25.5, data.Weather[0].Temperature)
	require.Equal(t, "Clouds", data.Weather[0].Condition)
}

func TestCurrentWeatherPropagatesSourceError(t *testing.T) {
	st := memory.New()
	src := &stubWeather{err: feed.ErrNoCondition}
	svc := feed.NewService(st, src, feed.Limits{}, zap.NewNop())

	_, err := svc.CurrentWeather(context.Background(), "Atlantis")
	require.ErrorIs(t, err, feed.ErrNoCondition)

	rows, err := st.ListWeather(context.Background(), 10)
	require.NoError(t, err)
	require.Empty(t, rows, "a rejected payload must not be persisted")
}
