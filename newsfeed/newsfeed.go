// CLAUDE:SUMMARY Main Service orchestrator: tracking writes, ranking, feed assembly, cache control.
package newsfeed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Shiva911-as/news-app/idgen"
	"github.com/Shiva911-as/news-app/newsfeed/internal/cache"
	"github.com/Shiva911-as/news-app/newsfeed/internal/feed"
	"github.com/Shiva911-as/news-app/newsfeed/internal/provider"
	"github.com/Shiva911-as/news-app/newsfeed/internal/rank"
	"github.com/Shiva911-as/news-app/newsfeed/internal/store"
)

// Service is the main newsfeed orchestrator.
type Service struct {
	store      *store.Store
	cache      *cache.Cache
	source     provider.Provider
	classifier *provider.Classifier
	builder    *feed.Builder
	config     *Config
	logger     *slog.Logger
	newID      idgen.Generator
	now        func() time.Time
}

// ServiceOption configures a Service during creation.
type ServiceOption func(*Service)

// WithClock overrides the service clock. Tests use this to control cache
// TTL expiry deterministically.
func WithClock(now func() time.Time) ServiceOption {
	return func(svc *Service) { svc.now = now }
}

// WithIDGenerator overrides event ID generation.
func WithIDGenerator(gen idgen.Generator) ServiceOption {
	return func(svc *Service) { svc.newID = gen }
}

// New creates a newsfeed Service over an opened tracking database and a
// news source (typically a provider.Chain).
func New(db *sql.DB, source provider.Provider, cfg *Config, logger *slog.Logger, opts ...ServiceOption) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("newsfeed: nil database")
	}
	if source == nil {
		return nil, fmt.Errorf("newsfeed: nil news source")
	}
	if cfg == nil {
		cfg = defaultConfig()
	}
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}

	svc := &Service{
		store:      store.NewStore(db),
		source:     source,
		classifier: provider.NewClassifier(cfg.Categories, cfg.Keywords),
		config:     cfg,
		logger:     logger,
		newID:      idgen.Prefixed("evt_", idgen.UUIDv7()),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}

	svc.cache = cache.New(source.Category, cache.Config{
		TTL:       cfg.CacheTTL,
		BatchSize: cfg.CacheBatchSize,
		Now:       svc.now,
		Logger:    logger,
	})
	svc.builder = feed.NewBuilder(func(ctx context.Context, category string, n int) ([]provider.Article, error) {
		res, err := svc.cache.Articles(ctx, category, n)
		if err != nil {
			return nil, err
		}
		return res.Articles, nil
	}, cfg.DefaultCategory, logger)

	return svc, nil
}

// ApplySchema applies the tracking schema to a database.
// Exported for the entry point and migration scripts.
func ApplySchema(db *sql.DB) error {
	return store.ApplySchema(db)
}

// --- Tracking ---

func validateTrack(userID, category string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(category) == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidInput)
	}
	return nil
}

// RecordClick appends a click event and recomputes the pair's preference.
// Storage failures wrap ErrStorageUnavailable; callers must treat them as
// non-fatal — a user can always read the article they clicked.
func (svc *Service) RecordClick(ctx context.Context, userID, category, articleURL string) (*CategoryPreference, error) {
	if err := validateTrack(userID, category); err != nil {
		return nil, err
	}
	pref, err := svc.store.RecordEvent(ctx, &store.InteractionEvent{
		ID:         svc.newID(),
		UserID:     userID,
		Category:   category,
		EventType:  store.EventClick,
		ArticleURL: articleURL,
		CreatedAt:  svc.now().UnixMilli(),
	}, svc.config.Weights)
	if err != nil {
		return nil, fmt.Errorf("%w: record click: %v", ErrStorageUnavailable, err)
	}
	return pref, nil
}

// RecordReadingTime appends a read event; the pair's avg_reading_time
// becomes the mean over all read events, not just the latest.
func (svc *Service) RecordReadingTime(ctx context.Context, userID, category, articleURL string, seconds float64) (*CategoryPreference, error) {
	if err := validateTrack(userID, category); err != nil {
		return nil, err
	}
	if seconds < 0 {
		return nil, fmt.Errorf("%w: negative reading time", ErrInvalidInput)
	}
	pref, err := svc.store.RecordEvent(ctx, &store.InteractionEvent{
		ID:          svc.newID(),
		UserID:      userID,
		Category:    category,
		EventType:   store.EventRead,
		ArticleURL:  articleURL,
		ReadingTime: seconds,
		CreatedAt:   svc.now().UnixMilli(),
	}, svc.config.Weights)
	if err != nil {
		return nil, fmt.Errorf("%w: record reading time: %v", ErrStorageUnavailable, err)
	}
	return pref, nil
}

// Preferences returns all preference rows for a user, unordered.
func (svc *Service) Preferences(ctx context.Context, userID string) ([]*CategoryPreference, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	prefs, err := svc.store.Preferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: preferences: %v", ErrStorageUnavailable, err)
	}
	return prefs, nil
}

// --- Ranking & feed ---

func rankEntries(prefs []*store.CategoryPreference) []rank.Entry {
	entries := make([]rank.Entry, len(prefs))
	for i, p := range prefs {
		entries[i] = rank.Entry{
			Category:       p.Category,
			Clicks:         p.Clicks,
			AvgReadingTime: p.AvgReadingTime,
			Score:          p.Score,
		}
	}
	return entries
}

// RankCategories returns the user's top categories by score descending.
// A user with no recorded preferences yields an empty list; feed assembly
// applies the configured default category in that case.
func (svc *Service) RankCategories(ctx context.Context, userID string, limit int) ([]string, error) {
	prefs, err := svc.Preferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	return rank.Categories(rankEntries(prefs), limit), nil
}

// BuildFeed assembles a personalized feed of up to total articles.
func (svc *Service) BuildFeed(ctx context.Context, userID string, total int) ([]FeedItem, error) {
	prefs, err := svc.Preferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	ranked := rank.Top(rankEntries(prefs), svc.config.RankLimit)
	items, err := svc.builder.Build(ctx, ranked, total)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return items, nil
}

// --- Articles ---

// CategoryArticles serves a category batch through the cache, re-fetching
// past the TTL and degrading to stale data when the source chain is down.
func (svc *Service) CategoryArticles(ctx context.Context, category string, pageSize int) (*CategoryBatch, error) {
	if strings.TrimSpace(category) == "" {
		return nil, fmt.Errorf("%w: category is required", ErrInvalidInput)
	}
	res, err := svc.cache.Articles(ctx, category, pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return res, nil
}

// TrendingArticles serves the default category's batch.
func (svc *Service) TrendingArticles(ctx context.Context, pageSize int) (*CategoryBatch, error) {
	return svc.CategoryArticles(ctx, svc.config.DefaultCategory, pageSize)
}

// SearchArticles queries the source chain directly (search results are
// too long-tailed to be worth caching) and tags each hit with its
// keyword-classified category.
func (svc *Service) SearchArticles(ctx context.Context, query string, pageSize int) ([]FeedItem, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is required", ErrInvalidInput)
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	articles, err := svc.source.Search(ctx, query, pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", ErrSourceUnavailable, err)
	}
	items := make([]FeedItem, 0, len(articles))
	for _, a := range articles {
		category := svc.classifier.Classify(a)
		if category == "" {
			category = svc.config.DefaultCategory
		}
		items = append(items, FeedItem{Article: a, Category: category})
	}
	return items, nil
}

// --- Cache control & stats ---

// RefreshCache forces the next fetch for one category, or for all
// categories when category is empty. This is the explicit manual-refresh
// action; nothing in the service invalidates on a timer.
func (svc *Service) RefreshCache(category string) {
	if category == "" {
		svc.cache.InvalidateAll()
		svc.logger.Info("cache invalidated", "scope", "all")
		return
	}
	svc.cache.Invalidate(category)
	svc.logger.Info("cache invalidated", "scope", category)
}

// CacheStatus reports every cache entry's age and freshness.
func (svc *Service) CacheStatus() []CacheEntryStatus {
	return svc.cache.Status()
}

// TrackingStats returns aggregate counters over the tracking store.
func (svc *Service) TrackingStats(ctx context.Context) (*TrackingStats, error) {
	st, err := svc.store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: stats: %v", ErrStorageUnavailable, err)
	}
	return st, nil
}

// DefaultCategory returns the configured fallback category key.
func (svc *Service) DefaultCategory() string {
	return svc.config.DefaultCategory
}
