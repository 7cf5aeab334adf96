// Package scraper holds the page sources and DOM helpers shared by the
// site adapters in its subpackages.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alexpolo1/newolddkprice/config"
	"github.com/alexpolo1/newolddkprice/utils"
)

// Source returns the HTML of a page.
type Source interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// StatusError reports a non-200 response from a search page.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s returned status %d", e.URL, e.StatusCode)
}

// Fetcher issues plain HTTP GET requests with a browser user agent.
type Fetcher struct {
	client    *http.Client
	userAgent string
	logger    *utils.Logger
}

// NewFetcher creates a Fetcher using the configured timeout and user agent.
func NewFetcher(cfg *config.Config, logger *utils.Logger) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: time.Duration(cfg.HTTPTimeoutSeconds) * time.Second},
		userAgent: cfg.UserAgent,
		logger:    logger,
	}
}

// Fetch GETs url and returns the body. Any status other than 200 is a
// *StatusError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	f.logger.Debug("[fetch] %s — %d bytes in %v", url, len(body), time.Since(start).Round(time.Millisecond))
	return string(body), nil
}
