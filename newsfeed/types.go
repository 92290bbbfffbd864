// CLAUDE:SUMMARY Re-exports internal types (Article, CategoryPreference, feed Item, cache Result) as the public API.
// Package newsfeed provides personalized news feeds over third-party
// news APIs.
//
// It tracks anonymous click and reading-time events, derives per-category
// preference scores, and assembles a ranked feed from a TTL-cached article
// store backed by a provider fallback chain (GNews, NewsAPI, RSS).
package newsfeed

import (
	"github.com/Shiva911-as/news-app/newsfeed/internal/cache"
	"github.com/Shiva911-as/news-app/newsfeed/internal/feed"
	"github.com/Shiva911-as/news-app/newsfeed/internal/provider"
	"github.com/Shiva911-as/news-app/newsfeed/internal/rank"
	"github.com/Shiva911-as/news-app/newsfeed/internal/store"
)

// Re-export internal types for the public API.
type (
	Article            = provider.Article
	InteractionEvent   = store.InteractionEvent
	CategoryPreference = store.CategoryPreference
	TrackingStats      = store.Stats
	CategoryBatch      = cache.Result
	CacheEntryStatus   = cache.EntryStatus
	FeedItem           = feed.Item
	Weights            = rank.Weights
)
