package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nvoropaev/pulsefeed/internal/feed"
)

func TestUpsertWeatherInsertsThenUpdates(t *testing.T) {
	st := New()
	ctx := context.Background()

	first := feed.WeatherRecord{City: "Paris", Temperature: 18, Condition: "Clear", FetchedAt: time.Unix(100, 0)}
	require.NoError(t, st.UpsertWeather(ctx, first))

	second := feed.WeatherRecord{City: "Paris", Temperature: 22, Condition: "Clouds", FetchedAt: time.Unix(200, 0)}
	require.NoError(t, st.UpsertWeather(ctx, second))

	rows, err := st.ListWeather(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1, "upsert must not duplicate a city")
	require.Equal(t, 22.0, rows[0].Temperature)
	require.Equal(t, "Clouds", rows[0].Condition)
	require.Equal(t, int64(1), rows[0].ID, "upsert keeps the existing id")
	require.Equal(t, time.Unix(200, 0), rows[0].FetchedAt, "timestamp is refreshed")
}

func TestTruncateAllClearsEveryTable(t *testing.T) {
	st := New()
	ctx := context.Background()

	require.NoError(t, st.InsertCrypto(ctx, []feed.CryptoRecord{{Name: "Bitcoin", Symbol: "BTC", FetchedAt: time.Now()}}))
	require.NoError(t, st.InsertWeather(ctx, []feed.WeatherRecord{{City: "Oslo", FetchedAt: time.Now()}}))
	require.NoError(t, st.InsertNews(ctx, []feed.NewsRecord{{Title: "t", Source: "s", URL: "https://example.com", FetchedAt: time.Now()}}))

	require.NoError(t, st.TruncateAll(ctx))

	crypto, err := st.ListCrypto(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, crypto)

	weather, err := st.ListWeather(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, weather)

	news, err := st.ListNews(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, news)
}

func TestListOrderingAndLimits(t *testing.T) {
	st := New()
	ctx := context.Background()

	t1 := time.Unix(100, 0)
	t2 := time.Unix(200, 0)
	t3 := time.Unix(300, 0)

	require.NoError(t, st.InsertCrypto(ctx, []feed.CryptoRecord{
		{Symbol: "ETH", FetchedAt: t2},
		{Symbol: "BTC", FetchedAt: t1},
		{Symbol: "SOL", FetchedAt: t3},
	}))
	require.NoError(t, st.InsertNews(ctx, []feed.NewsRecord{
		{Title: "old", FetchedAt: t1},
		{Title: "new", FetchedAt: t3},
		{Title: "mid", FetchedAt: t2},
	}))

	crypto, err := st.ListCrypto(ctx, 2)
	require.NoError(t, err)
	require.Len(t, crypto, 2)
	require.Equal(t, "BTC", crypto[0].Symbol, "crypto is ordered by fetch time ascending")
	require.Equal(t, "ETH", crypto[1].Symbol)

	news, err := st.ListNews(ctx, 2)
	require.NoError(t, err)
	require.Len(t, news, 2)
	require.Equal(t, "new", news[0].Title, "news is ordered by fetch time descending")
	require.Equal(t, "mid", news[1].Title)
}

func TestInsertAssignsSequentialIDs(t *testing.T) {
	st := New()
	ctx := context.Background()

	require.NoError(t, st.InsertNews(ctx, []feed.NewsRecord{
		{Title: "a", FetchedAt: time.Unix(1, 0)},
		{Title: "b", FetchedAt: time.Unix(2, 0)},
	}))

	rows, err := st.ListNews(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, int64(2), rows[0].ID)
	require.Equal(t, int64(1), rows[1].ID)
}
