package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nvoropaev/pulsefeed/internal/feed"
)

// ErrNoPrices signals a crypto payload without a single usable quote.
var ErrNoPrices = errors.New("crypto payload contains no prices")

// CoinGeckoClient fetches coin prices from CoinGecko. It supports both
// deployment variants of the upstream shape: the coin-keyed simple-price
// object and the top-N markets list. No API key is required.
type CoinGeckoClient struct {
	client  *http.Client
	baseURL string
}

var _ feed.CryptoSource = (*CoinGeckoClient)(nil)

func NewCoinGeckoClient(client *http.Client) *CoinGeckoClient {
	return &CoinGeckoClient{
		client:  client,
		baseURL: "https://api.coingecko.com/api/v3",
	}
}

// knownCoins maps CoinGecko ids to display name and ticker for the
// simple-price variant, whose payload carries neither.
var knownCoins = map[string]struct{ name, symbol string }{
	"bitcoin":  {"Bitcoin", "BTC"},
	"ethereum": {"Ethereum", "ETH"},
	"tether":   {"Tether", "USDT"},
	"solana":   {"Solana", "SOL"},
	"cardano":  {"Cardano", "ADA"},
	"dogecoin": {"Dogecoin", "DOGE"},
}

type simpleQuote struct {
	USD          float64  `json:"usd" validate:"gte=0"`
	USDMarketCap float64  `json:"usd_market_cap" validate:"gte=0"`
	USD24hChange *float64 `json:"usd_24h_change"`
	USD24hVol    *float64 `json:"usd_24h_vol"`
}

// SimplePrices fetches the coin-keyed simple-price object for the given
// CoinGecko ids and normalizes it. Quotes are returned in id order so a
// seed cycle is deterministic.
func (c *CoinGeckoClient) SimplePrices(ctx context.Context, ids []string) ([]feed.CryptoQuote, error) {
	values := url.Values{}
	values.Set("ids", strings.Join(ids, ","))
	values.Set("vs_currencies", "usd")
	values.Set("include_market_cap", "true")
	values.Set("include_24hr_change", "true")
	values.Set("include_24hr_vol", "true")

	payload := make(map[string]simpleQuote)
	if err := getJSON(ctx, c.client, c.baseURL+"/simple/price?"+values.Encode(), &payload); err != nil {
		return nil, fmt.Errorf("coingecko: %w", err)
	}
	if len(payload) == 0 {
		return nil, ErrNoPrices
	}

	coinIDs := make([]string, 0, len(payload))
	for id := range payload {
		coinIDs = append(coinIDs, id)
	}
	sort.Strings(coinIDs)

	fetchedAt := time.Now().UTC()
	quotes := make([]feed.CryptoQuote, 0, len(payload))
	for _, id := range coinIDs {
		q := payload[id]
		if err := validate.Struct(q); err != nil {
			return nil, fmt.Errorf("coingecko quote %q: %w", id, err)
		}

		name, symbol := coinIdentity(id)
		quotes = append(quotes, feed.CryptoQuote{
			Name:      name,
			Symbol:    symbol,
			Price:     q.USD,
			MarketCap: q.USDMarketCap,
			Change24h: q.USD24hChange,
			Volume24h: q.USD24hVol,
			FetchedAt: fetchedAt,
		})
	}
	return quotes, nil
}

type marketEntry struct {
	ID           string   `json:"id" validate:"required"`
	Name         string   `json:"name" validate:"required"`
	Symbol       string   `json:"symbol" validate:"required"`
	CurrentPrice float64  `json:"current_price" validate:"gte=0"`
	MarketCap    float64  `json:"market_cap" validate:"gte=0"`
	TotalVolume  *float64 `json:"total_volume"`
	Change24h    *float64 `json:"price_change_percentage_24h"`
	Sparkline    struct {
		Price []float64 `json:"price"`
	} `json:"sparkline_in_7d"`
}

// TopMarkets fetches the top n coins by market cap with 7-day sparklines.
func (c *CoinGeckoClient) TopMarkets(ctx context.Context, n int) ([]feed.CryptoQuote, error) {
	values := url.Values{}
	values.Set("vs_currency", "usd")
	values.Set("order", "market_cap_desc")
	values.Set("per_page", strconv.Itoa(n))
	values.Set("page", "1")
	values.Set("sparkline", "true")

	var payload []marketEntry
	if err := getJSON(ctx, c.client, c.baseURL+"/coins/markets?"+values.Encode(), &payload); err != nil {
		return nil, fmt.Errorf("coingecko: %w", err)
	}
	if len(payload) == 0 {
		return nil, ErrNoPrices
	}

	fetchedAt := time.Now().UTC()
	quotes := make([]feed.CryptoQuote, 0, len(payload))
	for _, e := range payload {
		if err := validate.Struct(e); err != nil {
			return nil, fmt.Errorf("coingecko market %q: %w", e.ID, err)
		}

		quotes = append(quotes, feed.CryptoQuote{
			Name:      e.Name,
			Symbol:    strings.ToUpper(e.Symbol),
			Price:     e.CurrentPrice,
			MarketCap: e.MarketCap,
			Change24h: e.Change24h,
			Volume24h: e.TotalVolume,
			Sparkline: e.Sparkline.Price,
			FetchedAt: fetchedAt,
		})
	}
	return quotes, nil
}

// coinIdentity resolves a CoinGecko id to a display name and uppercase
// ticker. Unknown ids fall back to a title-cased name and the id itself
// as the ticker.
func coinIdentity(id string) (name, symbol string) {
	if c, ok := knownCoins[id]; ok {
		return c.name, c.symbol
	}
	name = id
	if len(id) > 0 {
		name = strings.ToUpper(id[:1]) + id[1:]
	}
	return name, strings.ToUpper(id)
}
