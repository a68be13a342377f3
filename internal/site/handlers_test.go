package site

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestRouter(t *testing.T, opts RouterOptions) http.Handler {
	t.Helper()
	return NewRouter(newTestService(newTestBackend()), opts)
}

func doRequest(t *testing.T, h http.Handler, method, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodePage(t *testing.T, rec *httptest.ResponseRecorder) PageResponse {
	t.Helper()
	var page PageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("invalid response body %q: %v", rec.Body.String(), err)
	}
	return page
}

func TestRouterHomepage(t *testing.T) {
	router := newTestRouter(t, RouterOptions{CacheMaxAge: 300})

	rec := doRequest(t, router, http.MethodGet, "/api/homepage", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	page := decodePage(t, rec)
	if page.Title != "Welcome" || page.HTML == "" {
		t.Errorf("unexpected payload: %+v", page)
	}
	if got := rec.Header().Get("Cache-Control"); got != "public, max-age=300" {
		t.Errorf("Cache-Control = %q", got)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}
}

func TestRouterPageBySlug(t *testing.T) {
	router := newTestRouter(t, RouterOptions{})

	rec := doRequest(t, router, http.MethodGet, "/api/page/about", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if page := decodePage(t, rec); page.Slug != "about" {
		t.Errorf("Slug = %q", page.Slug)
	}
	if got := rec.Header().Get("Cache-Control"); got != "" {
		t.Errorf("Cache-Control = %q, want unset when max-age is zero", got)
	}
}

func TestRouterNotFound(t *testing.T) {
	router := newTestRouter(t, RouterOptions{CacheMaxAge: 300})

	for _, target := range []string{"/api/page/nope", "/api/blog/secret-draft"} {
		rec := doRequest(t, router, http.MethodGet, target, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", target, rec.Code)
		}
		if got := rec.Header().Get("Cache-Control"); got != "" {
			t.Errorf("GET %s Cache-Control = %q, want unset for errors", target, got)
		}
	}
}

func TestRouterUpstreamError(t *testing.T) {
	backend := newTestBackend()
	backend.queryErr = errors.New("notion is down")
	router := NewRouter(newTestService(backend), RouterOptions{})

	rec := doRequest(t, router, http.MethodGet, "/api/page/about", nil)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if body["error"] != "upstream error" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestRouterHealthz(t *testing.T) {
	router := newTestRouter(t, RouterOptions{})

	rec := doRequest(t, router, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != `{"status":"ok"}` {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestRouterCORS(t *testing.T) {
	origin := http.Header{"Origin": []string{"https://site.example.com"}}

	t.Run("allowlisted origin is echoed", func(t *testing.T) {
		router := newTestRouter(t, RouterOptions{AllowedOrigins: []string{"https://site.example.com"}})
		rec := doRequest(t, router, http.MethodGet, "/api/homepage", origin)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://site.example.com" {
			t.Errorf("Allow-Origin = %q", got)
		}
		if got := rec.Header().Get("Vary"); got != "Origin" {
			t.Errorf("Vary = %q", got)
		}
	})

	t.Run("wildcard", func(t *testing.T) {
		router := newTestRouter(t, RouterOptions{AllowedOrigins: []string{"*"}})
		rec := doRequest(t, router, http.MethodGet, "/api/homepage", origin)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("Allow-Origin = %q", got)
		}
	})

	t.Run("unknown origin gets no CORS headers", func(t *testing.T) {
		router := newTestRouter(t, RouterOptions{AllowedOrigins: []string{"https://other.example.com"}})
		rec := doRequest(t, router, http.MethodGet, "/api/homepage", origin)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Allow-Origin = %q, want unset", got)
		}
	})

	t.Run("preflight", func(t *testing.T) {
		router := newTestRouter(t, RouterOptions{AllowedOrigins: []string{"https://site.example.com"}})
		rec := doRequest(t, router, http.MethodOptions, "/api/homepage", origin)

		if rec.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "GET, OPTIONS" {
			t.Errorf("Allow-Methods = %q", got)
		}
	})
}
