// CLAUDE:SUMMARY Provider interface, normalized Article shape, and shared HTTP client config.
// Package provider implements news source adapters.
//
// Each adapter normalizes its upstream's article shape into Article and is
// tried in order by Chain until one succeeds. All requests are bounded by
// the client timeout; a hung upstream surfaces as an error, never a stall.
package provider

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// ErrUnavailable is returned when an adapter (or the whole chain) cannot
// produce any articles.
var ErrUnavailable = errors.New("provider: source unavailable")

// Article is the normalized, externally-sourced article shape.
// Treated as immutable; this core never owns or mutates article content.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	SourceName  string `json:"source_name"`
	PublishedAt string `json:"published_at"` // as delivered upstream, RFC 3339
	ImageURL    string `json:"image_url"`
}

// Provider fetches articles for a category or a free-text query.
type Provider interface {
	Name() string
	Category(ctx context.Context, category string, pageSize int) ([]Article, error)
	Search(ctx context.Context, query string, pageSize int) ([]Article, error)
}

// Config configures an HTTP-backed adapter.
type Config struct {
	APIKey    string
	Timeout   time.Duration // per-request bound. Default: 10s.
	UserAgent string
	// Keywords maps app categories to search terms for upstreams that
	// don't support the category natively.
	Keywords map[string][]string
	// BaseURL overrides the upstream endpoint (tests).
	BaseURL string
}

func (c *Config) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.UserAgent == "" {
		c.UserAgent = "news-app/1.0"
	}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
