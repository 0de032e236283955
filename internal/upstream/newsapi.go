package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/nvoropaev/pulsefeed/internal/feed"
)

// ErrNoArticles signals a headlines payload with an empty article list.
var ErrNoArticles = errors.New("news payload contains no articles")

// NewsAPIClient fetches top headlines from NewsAPI.org.
type NewsAPIClient struct {
	client  *http.Client
	apiKey  string
	baseURL string
}

var _ feed.NewsSource = (*NewsAPIClient)(nil)

func NewNewsAPIClient(client *http.Client, apiKey string) *NewsAPIClient {
	return &NewsAPIClient{
		client:  client,
		apiKey:  apiKey,
		baseURL: "https://newsapi.org/v2/top-headlines",
	}
}

type newsPayload struct {
	Status   string `json:"status"`
	Articles []struct {
		Title  string `json:"title" validate:"required"`
		URL    string `json:"url" validate:"required,url"`
		Source struct {
			Name string `json:"name" validate:"required"`
		} `json:"source"`
	} `json:"articles" validate:"dive"`
}

// TopHeadlines fetches up to pageSize articles and normalizes them.
// A malformed article (missing title or invalid URL) rejects the whole
// payload rather than being silently dropped.
func (c *NewsAPIClient) TopHeadlines(ctx context.Context, pageSize int) ([]feed.Headline, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("newsapi: %w", errMissingAPIKey)
	}

	values := url.Values{}
	values.Set("language", "en")
	values.Set("pageSize", strconv.Itoa(pageSize))
	values.Set("apiKey", c.apiKey)

	var payload newsPayload
	if err := getJSON(ctx, c.client, c.baseURL+"?"+values.Encode(), &payload); err != nil {
		return nil, fmt.Errorf("newsapi: %w", err)
	}
	if len(payload.Articles) == 0 {
		return nil, ErrNoArticles
	}
	if err := validate.Struct(payload); err != nil {
		return nil, fmt.Errorf("newsapi payload: %w", err)
	}

	fetchedAt := time.Now().UTC()
	headlines := make([]feed.Headline, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		headlines = append(headlines, feed.Headline{
			Title:     a.Title,
			Source:    a.Source.Name,
			URL:       a.URL,
			FetchedAt: fetchedAt,
		})
	}
	return headlines, nil
}
