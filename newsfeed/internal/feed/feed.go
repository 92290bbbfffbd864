// CLAUDE:SUMMARY Feed assembly: largest-remainder allocation by score share, rank-order interleave, URL dedup.
// Package feed assembles the personalized article feed from ranked
// categories and the per-category cache.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/Shiva911-as/news-app/newsfeed/internal/provider"
	"github.com/Shiva911-as/news-app/newsfeed/internal/rank"
)

// ArticlesFunc retrieves up to n articles for a category, typically the
// category cache.
type ArticlesFunc func(ctx context.Context, category string, n int) ([]provider.Article, error)

// Item is one feed entry: the article, the category it came from, and the
// category's contributing score, exposed for display and testing.
type Item struct {
	Article  provider.Article `json:"article"`
	Category string           `json:"category"`
	Score    float64          `json:"score"`
}

// Builder assembles feeds.
type Builder struct {
	articles        ArticlesFunc
	defaultCategory string
	logger          *slog.Logger
}

// NewBuilder creates a Builder. defaultCategory fills in for users with no
// recorded preferences; it must match a category key the providers serve.
func NewBuilder(articles ArticlesFunc, defaultCategory string, logger *slog.Logger) *Builder {
	if defaultCategory == "" {
		defaultCategory = "general"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{articles: articles, defaultCategory: defaultCategory, logger: logger}
}

// Build assembles a feed of up to total articles from the ranked
// categories, highest score first.
//
// Slots are allocated proportionally to each category's share of the total
// score, rounded with the largest-remainder method so allocations sum to
// exactly total. Per-category order is preserved; duplicates (by URL) keep
// their first occurrence. A category whose lookup fails is skipped so the
// rest of the feed survives. An empty ranking substitutes the configured
// default category.
func (b *Builder) Build(ctx context.Context, ranked []rank.Entry, total int) ([]Item, error) {
	if total <= 0 {
		total = 10
	}
	if len(ranked) == 0 {
		ranked = []rank.Entry{{Category: b.defaultCategory}}
	}

	scores := make([]float64, len(ranked))
	for i, e := range ranked {
		scores[i] = e.Score
	}
	counts := allocate(scores, total)

	items := make([]Item, 0, total)
	seen := make(map[string]bool)
	var lastErr error
	for i, e := range ranked {
		if counts[i] == 0 {
			continue
		}
		articles, err := b.articles(ctx, e.Category, counts[i])
		if err != nil {
			// Category-scoped failure: the rest of the feed remains usable.
			b.logger.Warn("feed: category lookup failed, skipping",
				"category", e.Category, "error", err)
			lastErr = err
			continue
		}
		taken := 0
		for _, a := range articles {
			if taken >= counts[i] {
				break
			}
			if a.URL == "" || seen[a.URL] {
				continue
			}
			seen[a.URL] = true
			items = append(items, Item{Article: a, Category: e.Category, Score: e.Score})
			taken++
		}
	}

	if len(items) == 0 && lastErr != nil {
		return nil, fmt.Errorf("feed: no category available: %w", lastErr)
	}
	return items, nil
}

// allocate distributes total slots proportionally to scores using the
// largest-remainder method. The result always sums to exactly total.
// Non-positive score sums degrade to an equal split.
func allocate(scores []float64, total int) []int {
	n := len(scores)
	counts := make([]int, n)
	if n == 0 || total <= 0 {
		return counts
	}

	sum := 0.0
	for _, s := range scores {
		if s > 0 {
			sum += s
		}
	}
	shares := make([]float64, n)
	if sum <= 0 {
		for i := range shares {
			shares[i] = 1.0 / float64(n)
		}
	} else {
		for i, s := range scores {
			if s > 0 {
				shares[i] = s / sum
			}
		}
	}

	type remainder struct {
		index int
		frac  float64
	}
	assigned := 0
	remainders := make([]remainder, n)
	for i, share := range shares {
		quota := share * float64(total)
		base := int(math.Floor(quota))
		counts[i] = base
		assigned += base
		remainders[i] = remainder{index: i, frac: quota - float64(base)}
	}

	// Hand leftover slots to the largest fractional remainders; ties go to
	// the higher-ranked (earlier) category so the result is deterministic.
	sort.SliceStable(remainders, func(i, j int) bool {
		return remainders[i].frac > remainders[j].frac
	})
	for i := 0; assigned < total; i++ {
		counts[remainders[i%n].index]++
		assigned++
	}
	return counts
}
