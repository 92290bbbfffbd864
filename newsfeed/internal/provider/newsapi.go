// CLAUDE:SUMMARY NewsAPI adapter: top-headlines per category, everything endpoint for search.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

const newsapiBaseURL = "https://newsapi.org/v2"

// Categories NewsAPI serves via top-headlines.
var newsapiCategories = map[string]bool{
	"general": true, "business": true, "entertainment": true, "health": true,
	"science": true, "sports": true, "technology": true,
}

// NewsAPI adapts the newsapi.org v2 API.
type NewsAPI struct {
	config Config
	client *http.Client
	base   string
}

// NewNewsAPI creates a NewsAPI adapter.
func NewNewsAPI(cfg Config) *NewsAPI {
	cfg.defaults()
	base := cfg.BaseURL
	if base == "" {
		base = newsapiBaseURL
	}
	return &NewsAPI{config: cfg, client: newHTTPClient(cfg.Timeout), base: base}
}

func (n *NewsAPI) Name() string { return "newsapi" }

// Category fetches top headlines for a category; categories outside the
// upstream's fixed set go through the everything endpoint as keyword search.
func (n *NewsAPI) Category(ctx context.Context, category string, pageSize int) ([]Article, error) {
	if newsapiCategories[category] {
		params := url.Values{}
		params.Set("category", category)
		params.Set("language", "en")
		params.Set("pageSize", strconv.Itoa(pageSize))
		return n.request(ctx, "/top-headlines", params)
	}
	return n.Search(ctx, keywordQuery(category, n.config.Keywords), pageSize)
}

// Search queries the everything endpoint sorted by recency.
func (n *NewsAPI) Search(ctx context.Context, query string, pageSize int) ([]Article, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("language", "en")
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", strconv.Itoa(pageSize))
	return n.request(ctx, "/everything", params)
}

func (n *NewsAPI) request(ctx context.Context, endpoint string, params url.Values) ([]Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.base+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", n.config.UserAgent)
	req.Header.Set("X-Api-Key", n.config.APIKey)

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: newsapi: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: newsapi: status %d", ErrUnavailable, resp.StatusCode)
	}

	var payload struct {
		Status   string `json:"status"`
		Articles []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			URL         string `json:"url"`
			URLToImage  string `json:"urlToImage"`
			PublishedAt string `json:"publishedAt"`
			Source      struct {
				Name string `json:"name"`
			} `json:"source"`
		} `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("newsapi: decode: %w", err)
	}
	if payload.Status != "ok" {
		return nil, fmt.Errorf("%w: newsapi: status %q", ErrUnavailable, payload.Status)
	}

	articles := make([]Article, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		// Upstream replaces withdrawn articles with "[Removed]" stubs.
		if a.Title == "" || a.URL == "" || a.Title == "[Removed]" {
			continue
		}
		articles = append(articles, Article{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			SourceName:  a.Source.Name,
			PublishedAt: a.PublishedAt,
			ImageURL:    a.URLToImage,
		})
	}
	return articles, nil
}
