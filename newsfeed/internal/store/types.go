// CLAUDE:SUMMARY Row types for the event log and the preference projection.
package store

// Event types recorded in user_interactions.
const (
	EventClick = "click"
	EventRead  = "read"
)

// InteractionEvent is one recorded user action. Immutable once written.
type InteractionEvent struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	Category    string  `json:"category"`
	EventType   string  `json:"event_type"`
	ArticleURL  string  `json:"article_url"`
	ReadingTime float64 `json:"reading_time_seconds"` // read events only
	CreatedAt   int64   `json:"created_at"`           // unix millis
}

// CategoryPreference is the derived projection for one user×category pair.
// score is always clicks*ClickWeight + avg_reading_time*TimeWeight,
// recomputed from the full event history on every update.
type CategoryPreference struct {
	UserID           string  `json:"user_id"`
	Category         string  `json:"category"`
	Clicks           int     `json:"clicks"`
	TotalReadingTime float64 `json:"total_reading_time"`
	AvgReadingTime   float64 `json:"avg_reading_time"`
	Score            float64 `json:"score"`
	LastUpdated      int64   `json:"last_updated"`
}

// Stats are aggregate counters over the tracking database.
type Stats struct {
	Events      int `json:"events"`
	Users       int `json:"users"`
	Preferences int `json:"preferences"`
}
