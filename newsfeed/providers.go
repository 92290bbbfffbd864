// CLAUDE:SUMMARY Public constructors for the news source adapters and their fallback chain.
package newsfeed

import (
	"log/slog"

	"github.com/Shiva911-as/news-app/newsfeed/internal/provider"
)

// Provider fetches articles from an upstream news source.
type Provider = provider.Provider

// ProviderConfig configures an upstream adapter.
type ProviderConfig = provider.Config

// NewGNews returns a GNews adapter. Categories GNews does not support
// natively fall back to a keyword search built from cfg.Keywords.
func NewGNews(cfg ProviderConfig) Provider { return provider.NewGNews(cfg) }

// NewNewsAPI returns a NewsAPI adapter.
func NewNewsAPI(cfg ProviderConfig) Provider { return provider.NewNewsAPI(cfg) }

// NewRSS returns the keyless RSS adapter over per-category feed URLs.
func NewRSS(feeds map[string][]string, cfg ProviderConfig) Provider {
	return provider.NewRSS(feeds, cfg)
}

// NewSourceChain returns a provider that tries each source in order and
// serves the first non-empty batch.
func NewSourceChain(logger *slog.Logger, providers ...Provider) Provider {
	return provider.NewChain(logger, providers...)
}
