package seeder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nvoropaev/pulsefeed/internal/config"
	"github.com/nvoropaev/pulsefeed/internal/feed"
	"github.com/nvoropaev/pulsefeed/internal/store/memory"
)

type stubCrypto struct {
	quotes    []feed.CryptoQuote
	err       error
	simpleIDs []string
	marketsN  int
}

func (s *stubCrypto) SimplePrices(_ context.Context, ids []string) ([]feed.CryptoQuote, error) {
	s.simpleIDs = ids
	return s.quotes, s.err
}

func (s *stubCrypto) TopMarkets(_ context.Context, n int) ([]feed.CryptoQuote, error) {
	s.marketsN = n
	return s.quotes, s.err
}

type stubWeather struct {
	err    error
	cities []string
}

func (s *stubWeather) Current(_ context.Context, city string) (feed.WeatherReading, error) {
	if s.err != nil {
		return feed.WeatherReading{}, s.err
	}
	s.cities = append(s.cities, city)
	return feed.WeatherReading{
		City:        city,
		Temperature: 20,
		Condition:   "Clear",
		FetchedAt:   time.Now().UTC(),
	}, nil
}

type stubNews struct {
	headlines []feed.Headline
	err       error
	called    bool
}

func (s *stubNews) TopHeadlines(_ context.Context, _ int) ([]feed.Headline, error) {
	s.called = true
	return s.headlines, s.err
}

func btcQuote() feed.CryptoQuote {
	return feed.CryptoQuote{
		Name:      "Bitcoin",
		Symbol:    "BTC",
		Price:     50000,
		MarketCap: 1e12,
		FetchedAt: time.Now().UTC(),
	}
}

func TestRunSeedsAllThreeTables(t *testing.T) {
	st := memory.New()
	crypto := &stubCrypto{quotes: []feed.CryptoQuote{btcQuote()}}
	weather := &stubWeather{}
	news := &stubNews{headlines: []feed.Headline{
		{Title: "Markets rally", Source: "Reuters", URL: "https://example.com/a", FetchedAt: time.Now().UTC()},
	}}

	s := New(st, crypto, weather, news, Options{
		Cities:       []string{"London", "Tokyo"},
		CryptoMode:   config.CryptoModeMarkets,
		CryptoTopN:   10,
		NewsPageSize: 10,
	}, zap.NewNop())

	require.NoError(t, s.Run(context.Background()))
	require.Equal(t, 10, crypto.marketsN)
	require.Equal(t, []string{"London", "Tokyo"}, weather.cities)

	ctx := context.Background()
	cryptoRows, err := st.ListCrypto(ctx, 10)
	require.NoError(t, err)
	require.Len(t, cryptoRows, 1)
	require.Equal(t, "Bitcoin", cryptoRows[0].Name)
	require.Equal(t, "BTC", cryptoRows[0].Symbol)
	require.Equal(t, 50000.0, cryptoRows[0].Price)
	require.Equal(t, 1e12, cryptoRows[0].MarketCap)

	weatherRows, err := st.ListWeather(ctx, 10)
	require.NoError(t, err)
	require.Len(t, weatherRows, 2)

	newsRows, err := st.ListNews(ctx, 10)
	require.NoError(t, err)
	require.Len(t, newsRows, 1)
}

func TestRunTruncatesPreviousCycle(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	require.NoError(t, st.InsertNews(ctx, []feed.NewsRecord{{Title: "stale", FetchedAt: time.Now()}}))

	s := New(st,
		&stubCrypto{quotes: []feed.CryptoQuote{btcQuote()}},
		&stubWeather{},
		&stubNews{headlines: []feed.Headline{{Title: "fresh", Source: "s", URL: "https://example.com", FetchedAt: time.Now().UTC()}}},
		Options{Cities: []string{"London"}, CryptoMode: config.CryptoModeMarkets, CryptoTopN: 1, NewsPageSize: 1},
		zap.NewNop())

	require.NoError(t, s.Run(ctx))

	rows, err := st.ListNews(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "fresh", rows[0].Title)
}

func TestRunAbortsCycleOnStepError(t *testing.T) {
	st := memory.New()
	news := &stubNews{headlines: []feed.Headline{{Title: "t", Source: "s", URL: "https://example.com"}}}
	weatherErr := errors.New("upstream unreachable")

	s := New(st,
		&stubCrypto{quotes: []feed.CryptoQuote{btcQuote()}},
		&stubWeather{err: weatherErr},
		news,
		Options{Cities: []string{"London"}, CryptoMode: config.CryptoModeMarkets, CryptoTopN: 1, NewsPageSize: 1},
		zap.NewNop())

	err := s.Run(context.Background())
	require.ErrorIs(t, err, weatherErr)
	require.False(t, news.called, "a failed step aborts the remaining steps")

	// Rows from steps that completed before the failure remain; no rollback.
	ctx := context.Background()
	cryptoRows, listErr := st.ListCrypto(ctx, 10)
	require.NoError(t, listErr)
	require.Len(t, cryptoRows, 1)

	newsRows, listErr := st.ListNews(ctx, 10)
	require.NoError(t, listErr)
	require.Empty(t, newsRows)
}

func TestRunSimpleModeUsesConfiguredCoinIDs(t *testing.T) {
	st := memory.New()
	crypto := &stubCrypto{quotes: []feed.CryptoQuote{btcQuote()}}

	s := New(st, crypto, &stubWeather{},
		&stubNews{headlines: []feed.Headline{{Title: "t", Source: "s", URL: "https://example.com"}}},
		Options{
			Cities:       []string{"London"},
			CryptoMode:   config.CryptoModeSimple,
			CoinIDs:      []string{"bitcoin", "ethereum"},
			NewsPageSize: 1,
		}, zap.NewNop())

	require.NoError(t, s.Run(context.Background()))
	require.Equal(t, []string{"bitcoin", "ethereum"}, crypto.simpleIDs)
	require.Zero(t, crypto.marketsN)
}
