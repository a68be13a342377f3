package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	ctxerrors "github.com/salmonumbrella/notion-site/internal/errors"
)

const (
	defaultBaseURL = "https://api.notion.com/v1"
	apiVersion     = "2025-09-03"
	defaultTimeout = 30 * time.Second
	maxRetries     = 3
	baseDelay      = 1 * time.Second
)

// Client is a read-only Notion API client. It covers the endpoints the
// site pipeline needs: block children, pages, and data source queries.
type Client struct {
	httpClient  *http.Client
	token       string
	baseURL     string
	version     string
	maxRetries  int
	rateLimiter *RateLimitTracker
}

// NewClient creates a new Notion API client with the given integration token.
func NewClient(token string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		token:       token,
		baseURL:     defaultBaseURL,
		version:     apiVersion,
		maxRetries:  maxRetries,
		rateLimiter: NewRateLimitTracker(),
	}
}

// WithHTTPClient sets a custom HTTP client.
func (c *Client) WithHTTPClient(client *http.Client) *Client {
	c.httpClient = client
	return c
}

// WithBaseURL sets a custom base URL (useful for testing).
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// WithMaxRetries sets the maximum number of retries for transient errors.
func (c *Client) WithMaxRetries(n int) *Client {
	c.maxRetries = n
	return c
}

// doRequest performs an HTTP request with retry logic for rate limits and
// transient errors.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	requestURL := c.baseURL + path

	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay(attempt, lastErr)
			slog.Debug("retrying notion request",
				"method", method,
				"path", path,
				"attempt", attempt,
				"delay", delay.String())

			select {
			case <-ctx.Done():
				return nil, ctxerrors.WrapContext(method, requestURL, 0, ctx.Err())
			case <-time.After(delay):
			}
		}

		resp, err := c.doRequestOnce(ctx, method, path, body)
		if err != nil {
			lastErr = err
			if apiErr, ok := err.(*APIError); ok && isRetryable(apiErr.StatusCode) {
				continue
			}
			return nil, ctxerrors.WrapContext(method, requestURL, statusCode(err), err)
		}

		return resp, nil
	}

	return nil, ctxerrors.WrapContext(method, requestURL, statusCode(lastErr), lastErr)
}

// doRequestOnce performs a single HTTP request attempt with auth and
// version headers, decoding API errors consistently.
func (c *Client) doRequestOnce(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Notion-Version", c.version)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	c.rateLimiter.Update(resp)

	if resp.StatusCode >= 400 {
		defer func() { _ = resp.Body.Close() }()
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
			return nil, &APIError{StatusCode: resp.StatusCode}
		}
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Response:   &errResp,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	return resp, nil
}

// retryDelay calculates the delay before the next retry attempt.
// Honors Retry-After when present, otherwise exponential backoff with jitter.
func (c *Client) retryDelay(attempt int, lastErr error) time.Duration {
	if apiErr, ok := lastErr.(*APIError); ok && apiErr.RetryAfter > 0 {
		return apiErr.RetryAfter
	}

	delay := baseDelay * time.Duration(1<<(attempt-1))
	jitter := time.Duration(rand.Int63n(int64(delay / 4)))
	return delay + jitter
}

// isRetryable returns true if the HTTP status code indicates a retryable error.
func isRetryable(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// parseRetryAfter parses the Retry-After header value.
// Returns the duration to wait, or 0 if not parseable.
func parseRetryAfter(retryAfter string) time.Duration {
	if retryAfter == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(retryAfter); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(retryAfter); err == nil {
		if delay := time.Until(t); delay > 0 {
			return delay
		}
	}

	return 0
}

// statusCode extracts the HTTP status code from an error if it's an APIError.
func statusCode(err error) int {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.StatusCode
	}
	return 0
}

// doGet performs a GET request with optional query parameters.
func (c *Client) doGet(ctx context.Context, path string, query url.Values, result interface{}) error {
	if len(query) > 0 {
		path = path + "?" + query.Encode()
	}

	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// doPost performs a POST request.
func (c *Client) doPost(ctx context.Context, path string, body, result interface{}) error {
	resp, err := c.doRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// GetRateLimitInfo returns the current rate limit information.
// Returns nil if no API requests have been made yet.
func (c *Client) GetRateLimitInfo() *RateLimitInfo {
	return c.rateLimiter.Get()
}
