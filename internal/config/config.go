package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Crypto fetch variants. The upstream response shape is chosen at
// deployment time, not negotiated at runtime.
const (
	CryptoModeSimple  = "simple"
	CryptoModeMarkets = "markets"
)

// AppConfig is the explicit configuration value object, loaded once at
// startup and passed by reference to the components that need it.
type AppConfig struct {
	DatabaseURL string

	OpenWeatherAPIKey string
	NewsAPIKey        string

	Port string

	// FallbackCity is used by the dynamic weather endpoint when the city
	// query parameter is absent.
	FallbackCity string

	// Cities seeded per cycle.
	Cities []string

	// CryptoMode selects the upstream shape: "simple" (coin-keyed object
	// for CoinIDs) or "markets" (top CryptoTopN list).
	CryptoMode string
	CoinIDs    []string
	CryptoTopN int

	NewsPageSize int

	// Aggregation read limits per table.
	CryptoLimit  int
	WeatherLimit int
	NewsLimit    int

	// Fixed-window rate limiter parameters.
	RateLimitQuota  int
	RateLimitWindow time.Duration

	// HTTPTimeout bounds every outbound upstream call.
	HTTPTimeout time.Duration

	// SeedInterval enables in-process periodic reseeding when positive.
	SeedInterval time.Duration
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.NewsAPIKey = os.Getenv("NEWS_API_KEY")

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.FallbackCity = getenvDefault("FALLBACK_CITY", "London")
	cfg.Cities = getenvList("SEED_CITIES", "London,New York,Tokyo")

	cfg.CryptoMode = getenvDefault("CRYPTO_MODE", CryptoModeMarkets)
	if cfg.CryptoMode != CryptoModeSimple && cfg.CryptoMode != CryptoModeMarkets {
		return nil, fmt.Errorf("invalid CRYPTO_MODE %q: must be %q or %q", cfg.CryptoMode, CryptoModeSimple, CryptoModeMarkets)
	}
	cfg.CoinIDs = getenvList("COIN_IDS", "bitcoin,ethereum")
	cfg.CryptoTopN = getenvInt("CRYPTO_TOP_N", 10)

	cfg.NewsPageSize = getenvInt("NEWS_PAGE_SIZE", 10)

	cfg.CryptoLimit = getenvInt("CRYPTO_LIMIT", 10)
	cfg.WeatherLimit = getenvInt("WEATHER_LIMIT", 10)
	cfg.NewsLimit = getenvInt("NEWS_LIMIT", 10)

	cfg.RateLimitQuota = getenvInt("RATE_LIMIT_QUOTA", 5)

	window, err := getenvDuration("RATE_LIMIT_WINDOW", "60s")
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW: %w", err)
	}
	cfg.RateLimitWindow = window

	timeout, err := getenvDuration("HTTP_TIMEOUT", "10s")
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	// Zero disables the in-process reseed scheduler.
	interval, err := getenvDuration("SEED_INTERVAL", "0s")
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_INTERVAL: %w", err)
	}
	cfg.SeedInterval = interval

	return cfg, nil
}

// RequireSeedCredentials verifies that everything a seed cycle needs is
// present. The seeder must not touch the store when any of these are
// missing.
func (c *AppConfig) RequireSeedCredentials() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.OpenWeatherAPIKey == "" {
		missing = append(missing, "OPENWEATHER_API_KEY")
	}
	if c.NewsAPIKey == "" {
		missing = append(missing, "NEWS_API_KEY")
	}
	if len(missing) > 0 {
		return errors.New("missing required configuration: " + strings.Join(missing, ", "))
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	return time.ParseDuration(getenvDefault(key, def))
}

func getenvList(key, def string) []string {
	raw := getenvDefault(key, def)
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
