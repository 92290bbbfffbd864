package provider

import (
	"context"
	"errors"
	"testing"
)

// fakeProvider returns canned articles or a canned error and counts calls.
type fakeProvider struct {
	name     string
	articles []Article
	err      error
	calls    int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Category(ctx context.Context, category string, pageSize int) ([]Article, error) {
	f.calls++
	return f.articles, f.err
}

func (f *fakeProvider) Search(ctx context.Context, query string, pageSize int) ([]Article, error) {
	f.calls++
	return f.articles, f.err
}

func TestChainFirstSuccessWins(t *testing.T) {
	// WHAT: The chain stops at the first adapter that returns articles.
	// WHY: Secondary providers burn quota; only call them on failure.
	primary := &fakeProvider{name: "primary", articles: []Article{{Title: "A", URL: "https://a"}}}
	backup := &fakeProvider{name: "backup", articles: []Article{{Title: "B", URL: "https://b"}}}
	c := NewChain(nil, primary, backup)

	articles, err := c.Category(context.Background(), "technology", 5)
	if err != nil {
		t.Fatalf("category: %v", err)
	}
	if articles[0].Title != "A" {
		t.Errorf("got %q, want primary's article", articles[0].Title)
	}
	if backup.calls != 0 {
		t.Errorf("backup called %d times, want 0", backup.calls)
	}
}

func TestChainFallsThroughOnError(t *testing.T) {
	// WHAT: A failing primary hands over to the next adapter.
	// WHY: The fallback chain is what keeps categories readable.
	primary := &fakeProvider{name: "primary", err: errors.New("quota exceeded")}
	backup := &fakeProvider{name: "backup", articles: []Article{{Title: "B", URL: "https://b"}}}
	c := NewChain(nil, primary, backup)

	articles, err := c.Category(context.Background(), "sports", 5)
	if err != nil {
		t.Fatalf("category: %v", err)
	}
	if articles[0].Title != "B" {
		t.Errorf("got %q, want backup's article", articles[0].Title)
	}
}

func TestChainEmptyBatchIsFailure(t *testing.T) {
	// WHAT: An adapter that succeeds with zero articles is treated as failed.
	// WHY: An empty panel helps nobody when a backup could fill it.
	primary := &fakeProvider{name: "primary", articles: []Article{}}
	backup := &fakeProvider{name: "backup", articles: []Article{{Title: "B", URL: "https://b"}}}
	c := NewChain(nil, primary, backup)

	articles, err := c.Category(context.Background(), "business", 5)
	if err != nil {
		t.Fatalf("category: %v", err)
	}
	if len(articles) != 1 || articles[0].Title != "B" {
		t.Errorf("got %+v, want backup's article", articles)
	}
}

func TestChainAllFail(t *testing.T) {
	// WHAT: If every adapter fails, the chain fails with ErrUnavailable.
	// WHY: Callers map this to SourceUnavailable for the category.
	a := &fakeProvider{name: "a", err: ErrUnavailable}
	b := &fakeProvider{name: "b", err: ErrUnavailable}
	c := NewChain(nil, a, b)

	_, err := c.Category(context.Background(), "technology", 5)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("got %v, want ErrUnavailable", err)
	}
}
