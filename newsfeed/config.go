package newsfeed

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Shiva911-as/news-app/newsfeed/internal/rank"
)

// Config configures the newsfeed service.
type Config struct {
	// Weights are the scoring coefficients (CLICK_WEIGHT, TIME_WEIGHT).
	Weights rank.Weights

	// CacheTTL is the freshness window for cached category batches.
	CacheTTL time.Duration

	// CacheBatchSize is how many articles each refresh fetches.
	CacheBatchSize int

	// DefaultCategory fills in for users with no recorded preferences.
	DefaultCategory string

	// RankLimit caps how many categories feed assembly considers.
	RankLimit int

	// Categories lists the known category keys in classification order.
	Categories []string

	// Keywords maps categories to the terms used for bucketing and for
	// keyword-search fallback on upstreams without native categories.
	Keywords map[string][]string

	// Feeds maps categories to RSS feed URLs for the last-resort adapter.
	Feeds map[string][]string
}

func (c *Config) defaults() {
	if c.Weights.Click == 0 && c.Weights.Time == 0 {
		c.Weights = rank.DefaultWeights()
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = 30 * time.Minute
	}
	if c.CacheBatchSize <= 0 {
		c.CacheBatchSize = 50
	}
	if c.DefaultCategory == "" {
		c.DefaultCategory = "general"
	}
	if c.RankLimit <= 0 {
		c.RankLimit = 5
	}
	if len(c.Categories) == 0 {
		c.Categories = DefaultCategories()
	}
	if len(c.Keywords) == 0 {
		c.Keywords = DefaultKeywords()
	}
	if len(c.Feeds) == 0 {
		c.Feeds = DefaultFeeds()
	}
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.defaults()
	return cfg
}

// DefaultCategories returns the built-in category keys in classification
// order. Order matters: more specific categories come first so bucketing
// is deterministic.
func DefaultCategories() []string {
	return []string{
		"technology", "business", "sports", "entertainment",
		"science", "health", "world", "general",
	}
}

// DefaultKeywords returns the built-in per-category keyword lists.
func DefaultKeywords() map[string][]string {
	return map[string][]string{
		"technology": {
			"technology", "software", "ai", "artificial intelligence",
			"startup", "app", "digital", "internet", "smartphone", "computing",
		},
		"business": {
			"business", "economy", "market", "stock", "inflation",
			"investment", "finance", "banking", "revenue", "ipo",
		},
		"sports": {
			"cricket", "football", "tennis", "olympics", "match",
			"tournament", "championship", "league", "player", "team",
		},
		"entertainment": {
			"movie", "film", "music", "celebrity", "actor",
			"series", "festival", "concert", "streaming",
		},
		"science": {
			"science", "research", "study", "discovery", "space",
			"climate", "physics", "biology",
		},
		"health": {
			"health", "medical", "medicine", "hospital", "vaccine",
			"disease", "wellness",
		},
		"world": {
			"international", "global", "diplomacy", "foreign",
			"united nations", "treaty", "border", "summit",
		},
		"general": {
			"news", "breaking", "today", "latest",
		},
	}
}

// DefaultFeeds returns the built-in RSS feed URLs per category. These
// back the keyless last-resort adapter when both API upstreams are down
// or unconfigured.
func DefaultFeeds() map[string][]string {
	return map[string][]string{
		"general": {
			"https://feeds.bbci.co.uk/news/rss.xml",
			"https://timesofindia.indiatimes.com/rssfeedstopstories.cms",
		},
		"technology": {
			"https://feeds.bbci.co.uk/news/technology/rss.xml",
		},
		"business": {
			"https://feeds.bbci.co.uk/news/business/rss.xml",
		},
		"sports": {
			"https://feeds.bbci.co.uk/sport/rss.xml",
		},
		"science": {
			"https://feeds.bbci.co.uk/news/science_and_environment/rss.xml",
		},
		"health": {
			"https://feeds.bbci.co.uk/news/health/rss.xml",
		},
		"world": {
			"https://feeds.bbci.co.uk/news/world/rss.xml",
		},
	}
}

// categoriesFile is the YAML shape for overriding the built-in category
// configuration. A sequence keeps classification order explicit:
//
//	default_category: general
//	categories:
//	  - name: technology
//	    keywords: [software, ai]
//	    feeds: [https://example.com/tech.xml]
type categoriesFile struct {
	DefaultCategory string `yaml:"default_category"`
	Categories      []struct {
		Name     string   `yaml:"name"`
		Keywords []string `yaml:"keywords"`
		Feeds    []string `yaml:"feeds"`
	} `yaml:"categories"`
}

// LoadCategoriesFile merges a YAML category file into the config,
// replacing the built-in categories, keywords, and feeds.
func (c *Config) LoadCategoriesFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var file categoriesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse categories file: %w", err)
	}
	if len(file.Categories) == 0 {
		return fmt.Errorf("categories file %s defines no categories", path)
	}

	c.Categories = c.Categories[:0]
	c.Keywords = make(map[string][]string, len(file.Categories))
	c.Feeds = make(map[string][]string)
	for _, cat := range file.Categories {
		if cat.Name == "" {
			return fmt.Errorf("categories file %s: category with empty name", path)
		}
		c.Categories = append(c.Categories, cat.Name)
		c.Keywords[cat.Name] = cat.Keywords
		if len(cat.Feeds) > 0 {
			c.Feeds[cat.Name] = cat.Feeds
		}
	}
	if file.DefaultCategory != "" {
		c.DefaultCategory = file.DefaultCategory
	}
	return nil
}
