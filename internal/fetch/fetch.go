// Package fetch retrieves web pages for mirroring, with config-driven
// retry behavior.
package fetch

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/whileseated/telegraph-markdown-uploader/internal/config"
)

// ErrUnexpectedStatusCode indicates an HTTP response with unexpected status.
var ErrUnexpectedStatusCode = errors.New("unexpected status code")

// Client fetches pages over HTTP, retrying transient failures.
type Client struct {
	httpClient *http.Client
	retry      *config.RetryPolicy
	userAgent  string
	maxBodyKb  int
}

// New creates a fetch client from the mirror configuration.
func New(cfg *config.MirrorConfig) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Retry.GetTimeout(),
		},
		retry:     &cfg.Retry,
		userAgent: cfg.UserAgent,
		maxBodyKb: cfg.MaxBodyKb,
	}
}

// Get fetches the page at url. Transport errors and retryable status
// codes are retried with exponential backoff up to max_attempts; the
// body read is capped at max_body_kb.
func (c *Client) Get(url string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		if attempt > 1 {
			if delay := c.retry.GetRetryDelay(attempt); delay > 0 {
				time.Sleep(delay)
			}
		}

		body, retryable, err := c.fetch(url)
		if err == nil {
			return body, nil
		}

		lastErr = fmt.Errorf("fetch failed (attempt %d/%d): %w", attempt, c.retry.MaxAttempts, err)

		if !retryable {
			break
		}
	}

	return "", lastErr
}

func (c *Client) fetch(url string) (body string, retryable bool, err error) {
	req, err := http.NewRequest(http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", false, fmt.Errorf("failed to create request: %w", err)
	}

	// Browser-looking headers to avoid being blocked
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", true, err
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", isRetryableStatus(resp.StatusCode), fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	reader := io.LimitReader(resp.Body, int64(c.maxBodyKb)*1024)

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", true, fmt.Errorf("failed to read response body: %w", err)
	}

	return string(data), false, nil
}

// isRetryableStatus determines if we should retry based on HTTP status code.
func isRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
		http.StatusTooManyRequests,
		http.StatusRequestTimeout:
		return true
	}

	return false
}
