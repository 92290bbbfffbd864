// CLAUDE:SUMMARY RSS fallback adapter over gofeed: per-category feed URLs, no API key required.
package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// RSS serves configured feeds per category. It is the last link of the
// fallback chain: no API key, no quota, just whatever the feeds publish.
type RSS struct {
	feeds  map[string][]string
	parser *gofeed.Parser
}

// NewRSS creates an RSS adapter from a category→feed-URLs map.
func NewRSS(feeds map[string][]string, cfg Config) *RSS {
	cfg.defaults()
	p := gofeed.NewParser()
	p.UserAgent = cfg.UserAgent
	p.Client = newHTTPClient(cfg.Timeout)
	return &RSS{feeds: feeds, parser: p}
}

func (r *RSS) Name() string { return "rss" }

// Category parses every configured feed for the category and merges items.
// A category with no configured feeds is unavailable from this adapter.
func (r *RSS) Category(ctx context.Context, category string, pageSize int) ([]Article, error) {
	urls := r.feeds[category]
	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: rss: no feeds for category %q", ErrUnavailable, category)
	}

	var articles []Article
	var lastErr error
	for _, u := range urls {
		feed, err := r.parser.ParseURLWithContext(u, ctx)
		if err != nil {
			lastErr = err
			continue
		}
		for _, item := range feed.Items {
			if item.Title == "" || item.Link == "" {
				continue
			}
			articles = append(articles, rssArticle(feed, item))
			if len(articles) >= pageSize {
				return articles, nil
			}
		}
	}
	if len(articles) == 0 {
		if lastErr != nil {
			return nil, fmt.Errorf("%w: rss: %v", ErrUnavailable, lastErr)
		}
		return nil, fmt.Errorf("%w: rss: feeds empty for category %q", ErrUnavailable, category)
	}
	return articles, nil
}

// Search filters all configured feeds by a case-insensitive substring match
// on title and description. Crude, but it keeps search alive when both API
// upstreams are down.
func (r *RSS) Search(ctx context.Context, query string, pageSize int) ([]Article, error) {
	q := strings.ToLower(query)
	var articles []Article
	for category := range r.feeds {
		batch, err := r.Category(ctx, category, pageSize)
		if err != nil {
			continue
		}
		for _, a := range batch {
			if strings.Contains(strings.ToLower(a.Title), q) ||
				strings.Contains(strings.ToLower(a.Description), q) {
				articles = append(articles, a)
				if len(articles) >= pageSize {
					return articles, nil
				}
			}
		}
	}
	if len(articles) == 0 {
		return nil, fmt.Errorf("%w: rss: no matches for %q", ErrUnavailable, query)
	}
	return articles, nil
}

func rssArticle(feed *gofeed.Feed, item *gofeed.Item) Article {
	a := Article{
		Title:       item.Title,
		Description: item.Description,
		URL:         item.Link,
		SourceName:  feed.Title,
	}
	if item.PublishedParsed != nil {
		a.PublishedAt = item.PublishedParsed.UTC().Format(time.RFC3339)
	}
	if item.Image != nil {
		a.ImageURL = item.Image.URL
	}
	return a
}
