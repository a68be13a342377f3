// Package site turns Notion pages into the JSON payloads the static
// frontend consumes: it looks pages up by slug, renders their blocks to
// HTML, and derives descriptions.
package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/salmonumbrella/notion-site/internal/notion"
	"github.com/salmonumbrella/notion-site/internal/render"
)

// ErrNotFound is returned when no published page matches a slug.
var ErrNotFound = errors.New("page not found")

// Backend is the slice of the Notion client the service needs.
type Backend interface {
	render.Source
	QueryDataSource(ctx context.Context, dataSourceID string, req *notion.QueryDataSourceRequest) (*notion.DataSourceQueryResult, error)
}

// Options configures the content sources and rendering policy.
type Options struct {
	// HomepageID is the Notion page rendered at /api/homepage.
	HomepageID string
	// PagesDataSourceID holds the static pages, keyed by SlugProperty.
	PagesDataSourceID string
	// BlogDataSourceID holds blog posts; only published ones are served.
	BlogDataSourceID string
	// SlugProperty is the rich_text property carrying the URL slug.
	SlugProperty string
	// PublishedProperty is the checkbox gating blog posts.
	PublishedProperty string
	// DescriptionLength caps derived descriptions, in runes.
	DescriptionLength int
	// RenderPolicy is passed through to the block renderer.
	RenderPolicy render.Policy
}

// DefaultOptions returns production defaults for everything but the IDs.
func DefaultOptions() Options {
	return Options{
		SlugProperty:      "Slug",
		PublishedProperty: "Published",
		DescriptionLength: 200,
		RenderPolicy:      render.DefaultPolicy(),
	}
}

// PageResponse is the JSON payload for a rendered page.
type PageResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty"`
	Cover       string `json:"cover,omitempty"`
	HTML        string `json:"html"`
}

// Service renders pages for the HTTP handlers and the CLI.
type Service struct {
	backend  Backend
	renderer *render.Renderer
	opts     Options
}

// NewService creates a Service. Zero-value option fields fall back to
// DefaultOptions.
func NewService(backend Backend, opts Options) *Service {
	defaults := DefaultOptions()
	if opts.SlugProperty == "" {
		opts.SlugProperty = defaults.SlugProperty
	}
	if opts.PublishedProperty == "" {
		opts.PublishedProperty = defaults.PublishedProperty
	}
	if opts.DescriptionLength <= 0 {
		opts.DescriptionLength = defaults.DescriptionLength
	}

	return &Service{
		backend:  backend,
		renderer: render.NewWithPolicy(backend, opts.RenderPolicy),
		opts:     opts,
	}
}

// Homepage renders the configured homepage page.
func (s *Service) Homepage(ctx context.Context) (*PageResponse, error) {
	if s.opts.HomepageID == "" {
		return nil, fmt.Errorf("no homepage configured")
	}
	page, err := s.backend.GetPage(ctx, s.opts.HomepageID)
	if err != nil {
		if notion.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch homepage: %w", err)
	}
	return s.respond(ctx, page, "")
}

// PageBySlug renders the static page with the given slug.
func (s *Service) PageBySlug(ctx context.Context, slug string) (*PageResponse, error) {
	return s.bySlug(ctx, s.opts.PagesDataSourceID, slug, false)
}

// BlogPostBySlug renders the published blog post with the given slug.
// Drafts are invisible: an unpublished post reads as not found.
func (s *Service) BlogPostBySlug(ctx context.Context, slug string) (*PageResponse, error) {
	return s.bySlug(ctx, s.opts.BlogDataSourceID, slug, true)
}

func (s *Service) bySlug(ctx context.Context, dataSourceID, slug string, publishedOnly bool) (*PageResponse, error) {
	if dataSourceID == "" {
		return nil, fmt.Errorf("no data source configured")
	}
	if slug == "" {
		return nil, ErrNotFound
	}

	filter := notion.RichTextEqualsFilter(s.opts.SlugProperty, slug)
	if publishedOnly {
		filter = notion.AndFilter(filter, notion.CheckboxEqualsFilter(s.opts.PublishedProperty, true))
	}

	result, err := s.backend.QueryDataSource(ctx, dataSourceID, &notion.QueryDataSourceRequest{
		Filter:   filter,
		PageSize: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("slug lookup failed: %w", err)
	}
	if len(result.Results) == 0 {
		return nil, ErrNotFound
	}

	return s.respond(ctx, &result.Results[0], slug)
}

// respond renders a page's blocks and assembles the payload.
func (s *Service) respond(ctx context.Context, page *notion.Page, slug string) (*PageResponse, error) {
	html, report, err := s.renderer.RenderPage(ctx, page.ID)
	if err != nil {
		return nil, err
	}
	if !report.Empty() {
		slog.Debug("page rendered with issues", "page", page.ID, "issues", len(report.Issues))
		report.Log()
	}

	return &PageResponse{
		ID:          page.ID,
		Title:       page.Title(),
		Slug:        slug,
		Description: Excerpt(html, s.opts.DescriptionLength),
		Cover:       page.CoverURL(),
		HTML:        html,
	}, nil
}
