// CLAUDE:SUMMARY Category affinity scoring: fixed linear formula over click/reading-time counters, deterministic ordering.
// Package rank computes per-category affinity scores and orders categories
// for feed assembly.
//
// The formula is fixed: score = clicks*ClickWeight + avg_reading_time*TimeWeight.
// Both weights are configuration surface, not hidden literals.
package rank

import "sort"

// Default weights. A click is worth ten times a second of average reading.
const (
	DefaultClickWeight = 1.0
	DefaultTimeWeight  = 0.1
)

// Weights holds the scoring coefficients.
type Weights struct {
	Click float64 // per recorded click
	Time  float64 // per second of average reading time
}

// DefaultWeights returns the standard coefficients.
func DefaultWeights() Weights {
	return Weights{Click: DefaultClickWeight, Time: DefaultTimeWeight}
}

func (w Weights) defaults() Weights {
	if w.Click == 0 && w.Time == 0 {
		return DefaultWeights()
	}
	return w
}

// Score computes the affinity score for one category.
func Score(clicks int, avgReadingTime float64, w Weights) float64 {
	w = w.defaults()
	return float64(clicks)*w.Click + avgReadingTime*w.Time
}

// Entry is one category with its accumulated counters.
type Entry struct {
	Category       string
	Clicks         int
	AvgReadingTime float64
	Score          float64
}

// Categories returns up to limit category names ordered by score descending.
// Ties break by clicks descending, then category name ascending, so the
// ordering is fully deterministic. Categories the user never touched are
// simply absent from the input and are never synthesized here; an empty
// input yields an empty result and the caller applies its fallback category.
func Categories(entries []Entry, limit int) []string {
	top := Top(entries, limit)
	names := make([]string, len(top))
	for i, e := range top {
		names[i] = e.Category
	}
	return names
}

// Top returns up to limit entries in the same deterministic order as
// Categories, preserving the counters for score-proportional allocation.
func Top(entries []Entry, limit int) []Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		if sorted[i].Clicks != sorted[j].Clicks {
			return sorted[i].Clicks > sorted[j].Clicks
		}
		return sorted[i].Category < sorted[j].Category
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
