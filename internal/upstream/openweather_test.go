package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nvoropaev/pulsefeed/internal/feed"
)

func TestCurrentNormalizesPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "Paris" {
			t.Errorf("expected query q=Paris, got %q", got)
		}
		if got := r.URL.Query().Get("units"); got != "metric" {
			t.Errorf("expected metric units, got %q", got)
		}
		w.Write([]byte(`{
			"name": "Paris",
			"main": {"temp": 21.4, "humidity": 60},
			"wind": {"speed": 3.5},
			"weather": [{"main": "Clouds"}, {"main": "Mist"}],
			"dt": 1714564800
		}`))
	}))
	defer srv.Close()

	c := NewOpenWeatherClient(srv.Client(), "test-key")
	c.baseURL = srv.URL

	reading, err := c.Current(context.Background(), "Paris")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reading.City != "Paris" {
		t.Errorf("expected city Paris, got %q", reading.City)
	}
	if reading.Temperature != 21.4 {
		t.Errorf("expected temperature 21.4, got %v", reading.Temperature)
	}
	if reading.Condition != "Clouds" {
		t.Errorf("expected first condition entry, got %q", reading.Condition)
	}
	if reading.Humidity == nil || *reading.Humidity != 60 {
		t.Errorf("expected humidity 60, got %v", reading.Humidity)
	}
	if reading.WindSpeed == nil || *reading.WindSpeed != 3.5 {
		t.Errorf("expected wind speed 3.5, got %v", reading.WindSpeed)
	}
	if reading.FetchedAt.Unix() != 1714564800 {
		t.Errorf("expected fetch time from payload, got %v", reading.FetchedAt)
	}
}

func TestCurrentRejectsEmptyConditionList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name": "Atlantis", "main": {"temp": 12.0}, "weather": []}`))
	}))
	defer srv.Close()

	c := NewOpenWeatherClient(srv.Client(), "test-key")
	c.baseURL = srv.URL

	_, err := c.Current(context.Background(), "Atlantis")
	if !errors.Is(err, feed.ErrNoCondition) {
		t.Fatalf("expected ErrNoCondition, got %v", err)
	}
}

func TestCurrentSurfacesUpstreamErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	}))
	defer srv.Close()

	c := NewOpenWeatherClient(srv.Client(), "test-key")
	c.baseURL = srv.URL

	_, err := c.Current(context.Background(), "Nowhere")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "city not found") {
		t.Fatalf("expected upstream message in error, got %v", err)
	}
}

func TestCurrentRequiresAPIKey(t *testing.T) {
	c := NewOpenWeatherClient(http.DefaultClient, "")

	_, err := c.Current(context.Background(), "Paris")
	if err == nil {
		t.Fatal("expected an error for missing api key")
	}
}
