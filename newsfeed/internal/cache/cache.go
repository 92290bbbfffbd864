// CLAUDE:SUMMARY Per-category TTL cache with single-flight fetch dedup and stale-on-error fallback.
// Package cache stores the last fetched article batch per category.
//
// The cache is an explicit object with an injected clock and TTL so tests
// control time deterministically. There is no background refresh: staleness
// is checked on every read (pull-based), and a stale entry triggers a
// synchronous re-fetch. Concurrent readers of the same category share one
// in-flight fetch via singleflight instead of issuing duplicate calls.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Shiva911-as/news-app/newsfeed/internal/provider"
)

// ErrNoData is returned when a category has no cached batch and the
// fetch failed — nothing fresh, nothing stale.
var ErrNoData = errors.New("cache: no data for category")

// DefaultTTL matches the upstream refresh budget: one batch per category
// per half hour.
const DefaultTTL = 30 * time.Minute

// FetchFunc retrieves a fresh batch for a category, typically the
// provider chain.
type FetchFunc func(ctx context.Context, category string, pageSize int) ([]provider.Article, error)

// Result is a served batch plus its provenance.
type Result struct {
	Category  string             `json:"category"`
	Articles  []provider.Article `json:"articles"`
	FetchedAt time.Time          `json:"fetched_at"`
	Stale     bool               `json:"stale"`
}

// EntryStatus describes one cache entry for the ops surface.
type EntryStatus struct {
	Category  string    `json:"category"`
	Articles  int       `json:"articles"`
	FetchedAt time.Time `json:"fetched_at"`
	AgeMs     int64     `json:"age_ms"`
	Fresh     bool      `json:"fresh"`
}

// Config configures a Cache.
type Config struct {
	TTL       time.Duration    // freshness window. Default: 30m.
	BatchSize int              // articles fetched per refresh. Default: 50.
	Now       func() time.Time // clock. Default: time.Now.
	Logger    *slog.Logger
}

func (c *Config) defaults() {
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 50
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

type entry struct {
	articles  []provider.Article
	fetchedAt time.Time
}

// Cache holds one batch per category key.
type Cache struct {
	fetch  FetchFunc
	config Config

	mu      sync.RWMutex
	entries map[string]*entry
	group   singleflight.Group
}

// New creates a Cache over the given fetch function.
func New(fetch FetchFunc, cfg Config) *Cache {
	cfg.defaults()
	return &Cache{
		fetch:   fetch,
		config:  cfg,
		entries: make(map[string]*entry),
	}
}

// Articles returns up to pageSize articles for a category.
//
// Fresh entries are served directly. Expired or missing entries trigger a
// synchronous fetch; concurrent callers attach to the same in-flight fetch.
// If the fetch fails and a stale entry exists, the stale batch is served
// with Stale=true. If there is nothing at all, the error wraps ErrNoData.
func (c *Cache) Articles(ctx context.Context, category string, pageSize int) (*Result, error) {
	if pageSize <= 0 {
		pageSize = 20
	}

	if e := c.lookup(category); e != nil && c.fresh(e) {
		return c.result(category, e, pageSize, false), nil
	}

	_, err, _ := c.group.Do(category, func() (any, error) {
		// Re-check after acquiring the flight: a concurrent caller may have
		// refreshed the entry while this one waited.
		if e := c.lookup(category); e != nil && c.fresh(e) {
			return nil, nil
		}
		articles, err := c.fetch(ctx, category, c.config.BatchSize)
		if err != nil {
			return nil, err
		}
		c.store(category, articles)
		return nil, nil
	})
	if err != nil {
		if e := c.lookup(category); e != nil {
			c.config.Logger.Warn("serving stale cache after fetch failure",
				"category", category, "error", err)
			return c.result(category, e, pageSize, true), nil
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrNoData, category, err)
	}

	e := c.lookup(category)
	if e == nil {
		// Invalidated between the fetch and this read; treat as no data.
		return nil, fmt.Errorf("%w: %s", ErrNoData, category)
	}
	return c.result(category, e, pageSize, false), nil
}

// Invalidate drops one category's entry; the next Articles call bypasses
// the TTL and re-fetches. Called only by the explicit manual-refresh
// action, never on a timer.
func (c *Cache) Invalidate(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, category)
}

// InvalidateAll drops every entry.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}

// Status reports every entry's age and freshness.
func (c *Cache) Status() []EntryStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	now := c.config.Now()
	statuses := make([]EntryStatus, 0, len(c.entries))
	for category, e := range c.entries {
		age := now.Sub(e.fetchedAt)
		statuses = append(statuses, EntryStatus{
			Category:  category,
			Articles:  len(e.articles),
			FetchedAt: e.fetchedAt,
			AgeMs:     age.Milliseconds(),
			Fresh:     age < c.config.TTL,
		})
	}
	return statuses
}

func (c *Cache) lookup(category string) *entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[category]
}

func (c *Cache) fresh(e *entry) bool {
	return c.config.Now().Sub(e.fetchedAt) < c.config.TTL
}

func (c *Cache) store(category string, articles []provider.Article) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[category] = &entry{articles: articles, fetchedAt: c.config.Now()}
}

func (c *Cache) result(category string, e *entry, pageSize int, stale bool) *Result {
	articles := e.articles
	if len(articles) > pageSize {
		articles = articles[:pageSize]
	}
	out := make([]provider.Article, len(articles))
	copy(out, articles)
	return &Result{
		Category:  category,
		Articles:  out,
		FetchedAt: e.fetchedAt,
		Stale:     stale,
	}
}
