package feed

import (
	"time"
)

// CryptoRecord is one normalized coin row as persisted in the store.
// Symbol is always stored uppercase. Price and MarketCap are never negative.
type CryptoRecord struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	MarketCap float64   `json:"market_cap"`
	Change24h *float64  `json:"change_24h,omitempty"`
	Volume24h *float64  `json:"volume_24h,omitempty"`
	Sparkline []float64 `json:"sparkline,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}

// WeatherRecord is one normalized weather row. City is unique in the store:
// the dynamic weather endpoint upserts by city rather than inserting duplicates.
type WeatherRecord struct {
	ID          int64     `json:"id"`
	City        string    `json:"city"`
	Temperature float64   `json:"temperature"` // °C
	Condition   string    `json:"condition"`
	Humidity    *float64  `json:"humidity,omitempty"` // percent, 0-100
	WindSpeed   *float64  `json:"wind_speed,omitempty"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// NewsRecord is one normalized headline row. There is no dedup guarantee
// across seed cycles.
type NewsRecord struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Source    string    `json:"source"`
	URL       string    `json:"url"`
	FetchedAt time.Time `json:"fetched_at"`
}

// AggregatedData is the composed response body of the aggregation endpoint.
type AggregatedData struct {
	Crypto     []CryptoRecord  `json:"crypto"`
	Weather    []WeatherRecord `json:"weather"`
	LatestNews []NewsRecord    `json:"latest_news"`
}
