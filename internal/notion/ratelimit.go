package notion

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimitInfo contains rate limit information from the latest API response.
type RateLimitInfo struct {
	Remaining int
	Limit     int
	ResetAt   time.Time
	RequestID string
	UpdatedAt time.Time
}

// RateLimitTracker tracks rate limit headers across API responses so the
// serving layer can log or surface backpressure.
type RateLimitTracker struct {
	mu   sync.RWMutex
	info *RateLimitInfo
}

// NewRateLimitTracker creates a new rate limit tracker.
func NewRateLimitTracker() *RateLimitTracker {
	return &RateLimitTracker{}
}

// Update records rate limit info from HTTP response headers.
func (t *RateLimitTracker) Update(resp *http.Response) {
	if resp == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	info := &RateLimitInfo{
		RequestID: resp.Header.Get("X-Request-Id"),
		UpdatedAt: time.Now(),
	}

	if limit := resp.Header.Get("X-RateLimit-Limit"); limit != "" {
		info.Limit, _ = strconv.Atoi(limit)
	}
	if remaining := resp.Header.Get("X-RateLimit-Remaining"); remaining != "" {
		info.Remaining, _ = strconv.Atoi(remaining)
	}
	if reset := resp.Header.Get("X-RateLimit-Reset"); reset != "" {
		if ts, err := strconv.ParseInt(reset, 10, 64); err == nil {
			info.ResetAt = time.Unix(ts, 0)
		}
	}

	t.info = info
}

// Get returns a copy of the current rate limit info, or nil if no
// requests have been made yet.
func (t *RateLimitTracker) Get() *RateLimitInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.info == nil {
		return nil
	}
	info := *t.info
	return &info
}
