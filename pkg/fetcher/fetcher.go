// Package fetcher downloads web pages with validation, retries and an
// optional on-disk page cache.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dtnitsch/llm-web-summarizer/internal/common"
	"github.com/dtnitsch/llm-web-summarizer/pkg/caching"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultMaxAttempts = 3
	defaultRetryWait   = 2 * time.Second
	defaultUserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

type Fetcher struct {
	client      *http.Client
	cache       *caching.Cache
	maxAttempts int
	retryWait   time.Duration
	userAgent   string
	logger      *slog.Logger
}

// New builds a Fetcher. cache may be nil to disable page caching.
func New(cache *caching.Cache, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		client:      &http.Client{Timeout: defaultTimeout},
		cache:       cache,
		maxAttempts: defaultMaxAttempts,
		retryWait:   defaultRetryWait,
		userAgent:   defaultUserAgent,
		logger:      logger,
	}
}

// Fetch returns the raw HTML for rawURL. The URL is validated first; then
// the page cache is consulted; then the page is fetched with up to three
// attempts and a fixed wait between them. Any failure after the attempts
// are exhausted is terminal for the caller.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := common.ValidateURL(rawURL); err != nil {
		return nil, err
	}

	if f.cache != nil {
		if data, ok := f.cache.Get(rawURL); ok {
			f.logger.Info("Raw HTML found in page cache", "url", rawURL, "bytes", len(data))
			return data, nil
		}
	}

	var lastErr error
	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(f.retryWait):
			}
		}

		f.logger.Info("Fetching page", "url", rawURL, "attempt", attempt, "max_attempts", f.maxAttempts)
		data, err := f.fetchOnce(ctx, rawURL)
		if err != nil {
			lastErr = err
			f.logger.Warn("Fetch attempt failed", "url", rawURL, "attempt", attempt, "error", err)
			continue
		}

		if f.cache != nil {
			if err := f.cache.Set(rawURL, data); err != nil {
				f.logger.Warn("Failed to store page in cache", "url", rawURL, "error", err)
			}
		}
		return data, nil
	}

	return nil, fmt.Errorf("failed to fetch %s after %d attempts: %w", rawURL, f.maxAttempts, lastErr)
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}
