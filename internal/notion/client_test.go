package notion

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/salmonumbrella/notion-site/internal/testutil"
)

func TestClientSendsAuthHeaders(t *testing.T) {
	ms := testutil.NewMockServer()
	defer ms.Close()

	var gotAuth, gotVersion string
	ms.Handle(http.MethodGet, "/blocks/b1", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotVersion = r.Header.Get("Notion-Version")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"block","id":"b1","type":"divider","divider":{}}`))
	})

	client := NewClient("secret-token").WithBaseURL(ms.URL())
	if _, err := client.GetBlock(context.Background(), "b1"); err != nil {
		t.Fatalf("GetBlock() error = %v", err)
	}

	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotVersion != apiVersion {
		t.Errorf("Notion-Version = %q, want %q", gotVersion, apiVersion)
	}
}

func TestClientRetriesRateLimit(t *testing.T) {
	ms := testutil.NewMockServer()
	defer ms.Close()

	var attempts atomic.Int32
	ms.Handle(http.MethodGet, "/blocks/b1", func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"object":"error","status":429,"code":"rate_limited","message":"slow down"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"block","id":"b1","type":"divider","divider":{}}`))
	})

	client := NewClient("token").WithBaseURL(ms.URL()).WithMaxRetries(2)
	block, err := client.GetBlock(context.Background(), "b1")
	if err != nil {
		t.Fatalf("GetBlock() error = %v", err)
	}
	if block.ID != "b1" {
		t.Errorf("block.ID = %q", block.ID)
	}
	if got := attempts.Load(); got != 2 {
		t.Errorf("server saw %d attempts, want 2", got)
	}
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	ms := testutil.NewMockServer()
	defer ms.Close()

	var attempts atomic.Int32
	ms.Handle(http.MethodGet, "/pages/p1", func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"object":"error","status":404,"code":"object_not_found","message":"Could not find page"}`))
	})

	client := NewClient("token").WithBaseURL(ms.URL()).WithMaxRetries(3)
	_, err := client.GetPage(context.Background(), "p1")
	if err == nil {
		t.Fatal("expected an error")
	}
	if got := attempts.Load(); got != 1 {
		t.Errorf("server saw %d attempts, want 1", got)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %T does not unwrap to *APIError", err)
	}
	if apiErr.Response == nil || apiErr.Response.Code != "object_not_found" {
		t.Errorf("unexpected error response: %+v", apiErr.Response)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound() = false, want true")
	}
}

func TestClientTracksRateLimitHeaders(t *testing.T) {
	ms := testutil.NewMockServer()
	defer ms.Close()

	ms.Handle(http.MethodGet, "/blocks/b1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Limit", "2700")
		w.Header().Set("X-RateLimit-Remaining", "2699")
		w.Header().Set("X-Request-Id", "req-123")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"block","id":"b1","type":"divider","divider":{}}`))
	})

	client := NewClient("token").WithBaseURL(ms.URL())
	if info := client.GetRateLimitInfo(); info != nil {
		t.Fatal("expected nil rate limit info before any request")
	}

	if _, err := client.GetBlock(context.Background(), "b1"); err != nil {
		t.Fatalf("GetBlock() error = %v", err)
	}

	info := client.GetRateLimitInfo()
	if info == nil {
		t.Fatal("expected rate limit info after a request")
	}
	if info.Limit != 2700 || info.Remaining != 2699 || info.RequestID != "req-123" {
		t.Errorf("unexpected rate limit info: %+v", info)
	}
}

func TestParseRetryAfter(t *testing.T) {
	if got := parseRetryAfter(""); got != 0 {
		t.Errorf("parseRetryAfter(\"\") = %v, want 0", got)
	}
	if got := parseRetryAfter("5"); got.Seconds() != 5 {
		t.Errorf("parseRetryAfter(\"5\") = %v, want 5s", got)
	}
	if got := parseRetryAfter("garbage"); got != 0 {
		t.Errorf("parseRetryAfter(\"garbage\") = %v, want 0", got)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
		{http.StatusNotFound, false},
		{http.StatusBadRequest, false},
		{http.StatusUnauthorized, false},
	}
	for _, tt := range tests {
		if got := isRetryable(tt.code); got != tt.want {
			t.Errorf("isRetryable(%d) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
