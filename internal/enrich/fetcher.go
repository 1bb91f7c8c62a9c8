package enrich

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"linkhive/internal/validation"
)

// maxFetchBytes caps how much of a page is read when looking for
// metadata; titles and meta tags live in the document head.
const maxFetchBytes = 1 << 20

// Fetcher retrieves the raw text of a page. Pure function of the URL, no
// side effects.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// HTTPFetcher fetches pages over plain HTTP with a bounded timeout.
// URLs are validated before any request is made to prevent SSRF against
// internal networks.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher with sane timeout and redirect limits.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return errors.New("too many redirects")
				}
				return nil
			},
		},
	}
}

// Fetch returns the page body as text, reading at most maxFetchBytes.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if valid, msg := validation.ValidateURLForFetch(url); !valid {
		return "", fmt.Errorf("refusing to fetch %s: %s", url, msg)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}
	req.Header.Set("User-Agent", "linkhive-enrich/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	return string(body), nil
}
