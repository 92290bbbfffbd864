// CLAUDE:SUMMARY Fallback chain: tries adapters in order, first non-empty batch wins.
package provider

import (
	"context"
	"fmt"
	"log/slog"
)

// Chain tries adapters in registration order and returns the first
// non-empty batch. Per-adapter failures are logged and absorbed; the
// chain itself fails only when every adapter does.
type Chain struct {
	providers []Provider
	logger    *slog.Logger
}

// NewChain creates a fallback chain. Order matters: put the primary first.
func NewChain(logger *slog.Logger, providers ...Provider) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{providers: providers, logger: logger}
}

func (c *Chain) Name() string { return "chain" }

// Category fetches a category batch through the chain.
func (c *Chain) Category(ctx context.Context, category string, pageSize int) ([]Article, error) {
	return c.try(ctx, "category", category, func(p Provider) ([]Article, error) {
		return p.Category(ctx, category, pageSize)
	})
}

// Search fetches a query batch through the chain.
func (c *Chain) Search(ctx context.Context, query string, pageSize int) ([]Article, error) {
	return c.try(ctx, "search", query, func(p Provider) ([]Article, error) {
		return p.Search(ctx, query, pageSize)
	})
}

func (c *Chain) try(ctx context.Context, op, key string, fetch func(Provider) ([]Article, error)) ([]Article, error) {
	if len(c.providers) == 0 {
		return nil, fmt.Errorf("%w: chain: no providers configured", ErrUnavailable)
	}
	var lastErr error
	for _, p := range c.providers {
		articles, err := fetch(p)
		if err != nil {
			c.logger.Warn("provider failed, trying next",
				"provider", p.Name(), "op", op, "key", key, "error", err)
			lastErr = err
			continue
		}
		if len(articles) == 0 {
			c.logger.Warn("provider returned no articles, trying next",
				"provider", p.Name(), "op", op, "key", key)
			lastErr = fmt.Errorf("%w: %s: empty result", ErrUnavailable, p.Name())
			continue
		}
		return articles, nil
	}
	return nil, fmt.Errorf("all providers failed for %s %q: %w", op, key, lastErr)
}
