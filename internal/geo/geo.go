// Package geo resolves client addresses to coarse locations via an external
// lookup service. The lookup is strictly best-effort: callers fall back to a
// default value on any failure.
package geo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxBodySize bounds the response read; country names are short.
const maxBodySize = 256

var errEmptyLocation = errors.New("empty location")

// Resolver looks up the country name for an IP address over HTTP.
// The endpoint is expected to serve plain-text country names at
// <endpoint>/<ip>/country_name/.
type Resolver struct {
	endpoint string
	client   *http.Client
}

// NewResolver creates a Resolver against the given endpoint. Every lookup is
// bounded by timeout, independently of the request context.
func NewResolver(endpoint string, timeout time.Duration) *Resolver {
	return &Resolver{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		client:   &http.Client{Timeout: timeout},
	}
}

// Resolve returns the country name for addr, or an error when the lookup
// fails or returns nothing useful.
func (r *Resolver) Resolve(ctx context.Context, addr string) (string, error) {
	const op = "geo.Resolver.Resolve"

	url := fmt.Sprintf("%s/%s/country_name/", r.endpoint, addr)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%s: failed to build request: %w", op, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: lookup failed: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: unexpected status code %d", op, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("%s: failed to read response: %w", op, err)
	}

	location := strings.TrimSpace(string(body))
	if location == "" {
		return "", fmt.Errorf("%s: %w", op, errEmptyLocation)
	}

	return location, nil
}
