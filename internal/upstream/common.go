// Package upstream holds the HTTP clients for the three third-party
// APIs. Each client decodes the provider payload, validates its shape,
// and normalizes it into the feed reading types.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var (
	errMissingAPIKey    = errors.New("api key is not configured")
	errUnexpectedStatus = errors.New("unexpected status code")
)

// getJSON performs a GET against url and decodes the 2xx response body
// into v. On a non-2xx status the provider's error message is surfaced
// when the body carries one.
func getJSON(ctx context.Context, client *http.Client, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %d%s", errUnexpectedStatus, resp.StatusCode, upstreamMessage(resp.Body))
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

// upstreamMessage extracts a human-readable message from a provider error
// body. Providers disagree on the field name, so both common ones are tried.
func upstreamMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(body, 4096)).Decode(&payload); err != nil {
		return ""
	}
	switch {
	case payload.Message != "":
		return ": " + payload.Message
	case payload.Error != "":
		return ": " + payload.Error
	}
	return ""
}
