// CLAUDE:SUMMARY GNews adapter: top-headlines for native categories, keyword search for the rest.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const gnewsBaseURL = "https://gnews.io/api/v4"

// Categories GNews serves natively via top-headlines.
var gnewsTopics = map[string]bool{
	"general": true, "world": true, "nation": true, "business": true,
	"technology": true, "entertainment": true, "sports": true,
	"science": true, "health": true,
}

// GNews adapts the gnews.io v4 API.
type GNews struct {
	config Config
	client *http.Client
	base   string
}

// NewGNews creates a GNews adapter.
func NewGNews(cfg Config) *GNews {
	cfg.defaults()
	base := cfg.BaseURL
	if base == "" {
		base = gnewsBaseURL
	}
	return &GNews{config: cfg, client: newHTTPClient(cfg.Timeout), base: base}
}

func (g *GNews) Name() string { return "gnews" }

// Category fetches articles for a category. Categories GNews doesn't serve
// natively fall back to a keyword search built from the configured lists.
func (g *GNews) Category(ctx context.Context, category string, pageSize int) ([]Article, error) {
	if gnewsTopics[category] {
		params := url.Values{}
		params.Set("category", category)
		params.Set("lang", "en")
		params.Set("max", strconv.Itoa(pageSize))
		return g.request(ctx, "/top-headlines", params)
	}
	return g.Search(ctx, keywordQuery(category, g.config.Keywords), pageSize)
}

// Search performs a free-text query.
func (g *GNews) Search(ctx context.Context, query string, pageSize int) ([]Article, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("lang", "en")
	params.Set("max", strconv.Itoa(pageSize))
	return g.request(ctx, "/search", params)
}

func (g *GNews) request(ctx context.Context, endpoint string, params url.Values) ([]Article, error) {
	params.Set("apikey", g.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.base+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", g.config.UserAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: gnews: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: gnews: status %d", ErrUnavailable, resp.StatusCode)
	}

	var payload struct {
		Articles []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			URL         string `json:"url"`
			Image       string `json:"image"`
			PublishedAt string `json:"publishedAt"`
			Source      struct {
				Name string `json:"name"`
			} `json:"source"`
		} `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("gnews: decode: %w", err)
	}

	articles := make([]Article, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		if a.Title == "" || a.URL == "" {
			continue
		}
		articles = append(articles, Article{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			SourceName:  a.Source.Name,
			PublishedAt: a.PublishedAt,
			ImageURL:    a.Image,
		})
	}
	return articles, nil
}

// keywordQuery builds an OR query from a category's keyword list.
// Falls back to the bare category name when no list is configured.
func keywordQuery(category string, keywords map[string][]string) string {
	terms := keywords[category]
	if len(terms) == 0 {
		return category
	}
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t != "" {
			quoted = append(quoted, `"`+t+`"`)
		}
	}
	return strings.Join(quoted, " OR ")
}
