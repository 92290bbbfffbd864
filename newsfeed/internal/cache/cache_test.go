package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Shiva911-as/news-app/newsfeed/internal/provider"
)

// fakeClock is an adjustable clock for deterministic TTL tests.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func batch(n int) []provider.Article {
	articles := make([]provider.Article, n)
	for i := range articles {
		articles[i] = provider.Article{
			Title: fmt.Sprintf("Article %d", i),
			URL:   fmt.Sprintf("https://example.com/%d", i),
		}
	}
	return articles
}

func TestSecondCallWithinTTLHitsCache(t *testing.T) {
	// WHAT: Two Articles calls inside the TTL trigger exactly one fetch.
	// WHY: The whole point of the cache is cutting upstream API calls.
	var calls int32
	clock := newFakeClock()
	c := New(func(ctx context.Context, category string, pageSize int) ([]provider.Article, error) {
		atomic.AddInt32(&calls, 1)
		return batch(5), nil
	}, Config{TTL: 30 * time.Minute, Now: clock.Now})

	ctx := context.Background()
	if _, err := c.Articles(ctx, "technology", 5); err != nil {
		t.Fatalf("first call: %v", err)
	}
	clock.Advance(10 * time.Minute)
	res, err := c.Articles(ctx, "technology", 5)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("fetch calls: got %d, want 1", got)
	}
	if res.Stale {
		t.Error("fresh entry flagged stale")
	}
}

func TestExpiredEntryRefetches(t *testing.T) {
	// WHAT: An entry older than the TTL triggers a re-fetch before serving.
	// WHY: Stale batches must never be served silently as fresh.
	var calls int32
	clock := newFakeClock()
	c := New(func(ctx context.Context, category string, pageSize int) ([]provider.Article, error) {
		atomic.AddInt32(&calls, 1)
		return batch(3), nil
	}, Config{TTL: 30 * time.Minute, Now: clock.Now})

	ctx := context.Background()
	c.Articles(ctx, "sports", 3)
	clock.Advance(31 * time.Minute)
	c.Articles(ctx, "sports", 3)

	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("fetch calls: got %d, want 2", got)
	}
}

func TestStaleServedWhenFetchFails(t *testing.T) {
	// WHAT: An expired entry plus a failing fetch serves the stale batch
	// with Stale=true instead of an error.
	// WHY: Graceful degradation — old news beats no news.
	var fail atomic.Bool
	clock := newFakeClock()
	c := New(func(ctx context.Context, category string, pageSize int) ([]provider.Article, error) {
		if fail.Load() {
			return nil, errors.New("upstream down")
		}
		return batch(4), nil
	}, Config{TTL: 30 * time.Minute, Now: clock.Now})

	ctx := context.Background()
	if _, err := c.Articles(ctx, "business", 4); err != nil {
		t.Fatalf("seed: %v", err)
	}
	fail.Store(true)
	clock.Advance(31 * time.Minute)

	res, err := c.Articles(ctx, "business", 4)
	if err != nil {
		t.Fatalf("stale fallback: %v", err)
	}
	if !res.Stale {
		t.Error("want Stale=true")
	}
	if len(res.Articles) != 4 {
		t.Errorf("articles: got %d, want 4", len(res.Articles))
	}
}

func TestNoDataAndFailingFetch(t *testing.T) {
	// WHAT: No cached entry plus a failing fetch yields ErrNoData.
	// WHY: This is the SourceUnavailable case the HTTP layer maps to 503.
	c := New(func(ctx context.Context, category string, pageSize int) ([]provider.Article, error) {
		return nil, errors.New("always down")
	}, Config{})

	_, err := c.Articles(context.Background(), "technology", 5)
	if !errors.Is(err, ErrNoData) {
		t.Errorf("got %v, want ErrNoData", err)
	}
}

func TestInvalidateForcesRefetch(t *testing.T) {
	// WHAT: Invalidate bypasses the TTL on the next call.
	// WHY: Manual refresh is an explicit user action.
	var calls int32
	clock := newFakeClock()
	c := New(func(ctx context.Context, category string, pageSize int) ([]provider.Article, error) {
		atomic.AddInt32(&calls, 1)
		return batch(2), nil
	}, Config{TTL: 30 * time.Minute, Now: clock.Now})

	ctx := context.Background()
	c.Articles(ctx, "technology", 2)
	c.Invalidate("technology")
	c.Articles(ctx, "technology", 2)

	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("fetch calls: got %d, want 2", got)
	}
}

func TestInvalidateAllClearsEveryCategory(t *testing.T) {
	// WHAT: InvalidateAll drops all entries.
	// WHY: The manual-refresh endpoint clears the whole cache.
	clock := newFakeClock()
	c := New(func(ctx context.Context, category string, pageSize int) ([]provider.Article, error) {
		return batch(1), nil
	}, Config{Now: clock.Now})

	ctx := context.Background()
	c.Articles(ctx, "technology", 1)
	c.Articles(ctx, "sports", 1)
	c.InvalidateAll()

	if got := len(c.Status()); got != 0 {
		t.Errorf("entries after InvalidateAll: got %d, want 0", got)
	}
}

func TestConcurrentCallersShareOneFetch(t *testing.T) {
	// WHAT: Parallel Articles calls for one category produce one fetch.
	// WHY: The at-most-one-in-flight guarantee protects upstream quotas.
	var calls int32
	started := make(chan struct{})
	release := make(chan struct{})
	c := New(func(ctx context.Context, category string, pageSize int) ([]provider.Article, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
		}
		<-release
		return batch(3), nil
	}, Config{})

	const n = 8
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Articles(context.Background(), "technology", 3); err != nil {
				t.Errorf("articles: %v", err)
			}
		}()
	}
	<-started
	// All callers are now either in or waiting on the single flight.
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("fetch calls: got %d, want 1", got)
	}
}

func TestPageSizeSlicesBatch(t *testing.T) {
	// WHAT: A page size smaller than the cached batch returns a prefix.
	// WHY: One cached batch serves requests of any size within it.
	c := New(func(ctx context.Context, category string, pageSize int) ([]provider.Article, error) {
		return batch(10), nil
	}, Config{})

	res, err := c.Articles(context.Background(), "technology", 3)
	if err != nil {
		t.Fatalf("articles: %v", err)
	}
	if len(res.Articles) != 3 {
		t.Errorf("articles: got %d, want 3", len(res.Articles))
	}
}

func TestStatusReportsFreshness(t *testing.T) {
	// WHAT: Status reports age and freshness per entry.
	// WHY: The ops endpoint exposes cache state for debugging.
	clock := newFakeClock()
	c := New(func(ctx context.Context, category string, pageSize int) ([]provider.Article, error) {
		return batch(2), nil
	}, Config{TTL: 30 * time.Minute, Now: clock.Now})

	c.Articles(context.Background(), "technology", 2)
	clock.Advance(31 * time.Minute)

	statuses := c.Status()
	if len(statuses) != 1 {
		t.Fatalf("entries: got %d, want 1", len(statuses))
	}
	if statuses[0].Fresh {
		t.Error("entry past TTL reported fresh")
	}
}
