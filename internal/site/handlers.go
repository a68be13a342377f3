package site

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterOptions configures the HTTP surface around the service.
type RouterOptions struct {
	// AllowedOrigins is the CORS allowlist. "*" allows any origin.
	AllowedOrigins []string
	// CacheMaxAge is the Cache-Control max-age in seconds for
	// successful responses. Zero disables the header.
	CacheMaxAge int
}

// NewRouter builds the API router serving rendered pages as JSON.
func NewRouter(svc *Service, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware(opts.AllowedOrigins))

	r.Get("/api/homepage", func(w http.ResponseWriter, req *http.Request) {
		page, err := svc.Homepage(req.Context())
		respond(w, page, err, opts.CacheMaxAge)
	})

	r.Get("/api/page/{slug}", func(w http.ResponseWriter, req *http.Request) {
		page, err := svc.PageBySlug(req.Context(), chi.URLParam(req, "slug"))
		respond(w, page, err, opts.CacheMaxAge)
	})

	r.Get("/api/blog/{slug}", func(w http.ResponseWriter, req *http.Request) {
		page, err := svc.BlogPostBySlug(req.Context(), chi.URLParam(req, "slug"))
		respond(w, page, err, opts.CacheMaxAge)
	})

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return r
}

// respond maps service results onto HTTP: not-found slugs become 404,
// upstream failures 502, everything else a cached 200.
func respond(w http.ResponseWriter, page *PageResponse, err error, cacheMaxAge int) {
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		slog.Error("page render failed", "error", err)
		writeError(w, http.StatusBadGateway, "upstream error")
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if cacheMaxAge > 0 {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", cacheMaxAge))
	}
	_ = json.NewEncoder(w).Encode(page)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// corsMiddleware applies an origin allowlist. Preflight requests are
// answered directly.
func corsMiddleware(allowed []string) func(http.Handler) http.Handler {
	allowAll := false
	allowedSet := make(map[string]bool, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			allowAll = true
		}
		allowedSet[origin] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			origin := req.Header.Get("Origin")
			if origin != "" && (allowAll || allowedSet[origin]) {
				if allowAll {
					w.Header().Set("Access-Control-Allow-Origin", "*")
				} else {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Vary", "Origin")
				}
				w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			}

			if req.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, req)
		})
	}
}
