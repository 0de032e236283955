package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/nvoropaev/pulsefeed/internal/feed"
)

// OpenWeatherClient fetches current conditions from OpenWeatherMap.
type OpenWeatherClient struct {
	client  *http.Client
	apiKey  string
	baseURL string
}

var _ feed.WeatherSource = (*OpenWeatherClient)(nil)

func NewOpenWeatherClient(client *http.Client, apiKey string) *OpenWeatherClient {
	return &OpenWeatherClient{
		client:  client,
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
	}
}

// openWeatherPayload mirrors the subset of the OpenWeatherMap current
// weather response the gateway consumes. Humidity and wind are optional
// upstream; a payload without a single condition entry is rejected.
type openWeatherPayload struct {
	Name string `json:"name"`
	Main struct {
		Temp     float64  `json:"temp"`
		Humidity *float64 `json:"humidity" validate:"omitempty,gte=0,lte=100"`
	} `json:"main"`
	Wind struct {
		Speed *float64 `json:"speed" validate:"omitempty,gte=0"`
	} `json:"wind"`
	Weather []struct {
		Main string `json:"main" validate:"required"`
	} `json:"weather" validate:"dive"`
	Dt int64 `json:"dt"`
}

// Current fetches and normalizes the current weather for a city.
// Returns feed.ErrNoCondition when the payload's condition list is empty.
func (c *OpenWeatherClient) Current(ctx context.Context, city string) (feed.WeatherReading, error) {
	if c.apiKey == "" {
		return feed.WeatherReading{}, fmt.Errorf("openweather: %w", errMissingAPIKey)
	}

	values := url.Values{}
	values.Set("q", city)
	values.Set("appid", c.apiKey)
	values.Set("units", "metric")

	var payload openWeatherPayload
	if err := getJSON(ctx, c.client, c.baseURL+"?"+values.Encode(), &payload); err != nil {
		return feed.WeatherReading{}, fmt.Errorf("openweather: %w", err)
	}

	if len(payload.Weather) == 0 {
		return feed.WeatherReading{}, feed.ErrNoCondition
	}
	if err := validate.Struct(payload); err != nil {
		return feed.WeatherReading{}, fmt.Errorf("openweather payload: %w", err)
	}

	// Prefer the canonical city name the provider resolved the query to.
	name := payload.Name
	if name == "" {
		name = city
	}

	fetchedAt := time.Now().UTC()
	if payload.Dt > 0 {
		fetchedAt = time.Unix(payload.Dt, 0).UTC()
	}

	return feed.WeatherReading{
		City:        name,
		Temperature: payload.Main.Temp,
		Condition:   payload.Weather[0].Main,
		Humidity:    payload.Main.Humidity,
		WindSpeed:   payload.Wind.Speed,
		FetchedAt:   fetchedAt,
	}, nil
}
