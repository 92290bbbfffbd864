// CLAUDE:SUMMARY Keyword bucketing: assigns articles from a general fetch to categories by keyword lists.
package provider

import "strings"

// Classifier buckets articles into categories by keyword matching on
// title + description. The keyword lists are configuration surface and
// must use the same category keys as the cache and the preference store.
type Classifier struct {
	categories []string            // match order, most specific first
	keywords   map[string][]string // lowercased terms per category
}

// NewClassifier builds a Classifier. Match order follows the order map
// iteration is pinned by the categories slice; callers pass the category
// list to make classification deterministic.
func NewClassifier(categories []string, keywords map[string][]string) *Classifier {
	lowered := make(map[string][]string, len(keywords))
	for cat, terms := range keywords {
		ts := make([]string, 0, len(terms))
		for _, t := range terms {
			t = strings.ToLower(strings.TrimSpace(t))
			if t != "" {
				ts = append(ts, t)
			}
		}
		lowered[cat] = ts
	}
	return &Classifier{categories: categories, keywords: lowered}
}

// Classify returns the first category whose keyword list matches the
// article, or "" when nothing matches.
func (c *Classifier) Classify(a Article) string {
	content := strings.ToLower(a.Title + " " + a.Description)
	for _, cat := range c.categories {
		for _, term := range c.keywords[cat] {
			if strings.Contains(content, term) {
				return cat
			}
		}
	}
	return ""
}

// Bucket groups a general batch by category. Unmatched articles land in
// the fallback bucket so nothing is dropped.
func (c *Classifier) Bucket(articles []Article, fallback string) map[string][]Article {
	buckets := make(map[string][]Article)
	for _, a := range articles {
		cat := c.Classify(a)
		if cat == "" {
			cat = fallback
		}
		buckets[cat] = append(buckets[cat], a)
	}
	return buckets
}
