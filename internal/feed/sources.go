package feed

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNoData signals that at least one of the source tables is empty,
	// i.e. the seeder has not run or produced no rows.
	ErrNoData = errors.New("data not available")

	// ErrNoCondition signals an upstream weather payload without a single
	// condition entry. Surfaced to the caller as a 400.
	ErrNoCondition = errors.New("weather payload contains no condition entry")
)

// CryptoQuote is a single provider-normalized coin reading.
type CryptoQuote struct {
	Name      string
	Symbol    string
	Price     float64
	MarketCap float64
	Change24h *float64
	Volume24h *float64
	Sparkline []float64
	FetchedAt time.Time
}

// WeatherReading is a single provider-normalized weather observation.
// JSON tags match the dynamic weather endpoint's response body.
type WeatherReading struct {
	City        string    `json:"city"`
	Temperature float64   `json:"temperature"`
	Condition   string    `json:"condition"`
	Humidity    *float64  `json:"humidity,omitempty"`
	WindSpeed   *float64  `json:"wind_speed,omitempty"`
	FetchedAt   time.Time `json:"-"`
}

// Headline is a single provider-normalized news article.
type Headline struct {
	Title     string
	Source    string
	URL       string
	FetchedAt time.Time
}

// CryptoSource abstracts the crypto price API. The two methods correspond
// to the two deployment variants of the upstream response shape: a
// coin-keyed simple-price object or a top-N markets list.
type CryptoSource interface {
	SimplePrices(ctx context.Context, ids []string) ([]CryptoQuote, error)
	TopMarkets(ctx context.Context, n int) ([]CryptoQuote, error)
}

// WeatherSource abstracts the current-weather API.
type WeatherSource interface {
	Current(ctx context.Context, city string) (WeatherReading, error)
}

// NewsSource abstracts the headlines API.
type NewsSource interface {
	TopHeadlines(ctx context.Context, pageSize int) ([]Headline, error)
}
