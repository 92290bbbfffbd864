// CLAUDE:SUMMARY Event append plus transactional full-history recompute of the preference projection.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Shiva911-as/news-app/dbopen"
	"github.com/Shiva911-as/news-app/newsfeed/internal/rank"
)

// RecordEvent appends an interaction event and recomputes the preference
// projection for its (user_id, category) pair in the same transaction.
// The projection is derived from the full accumulated history, never
// incremented in place, so two racing writers both converge on the same
// final counters. Returns the projection row as written.
func (s *Store) RecordEvent(ctx context.Context, ev *InteractionEvent, w rank.Weights) (*CategoryPreference, error) {
	if ev.CreatedAt == 0 {
		ev.CreatedAt = time.Now().UnixMilli()
	}

	var pref *CategoryPreference
	err := dbopen.RunTx(ctx, s.DB, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO user_interactions (id, user_id, category, event_type, article_url, reading_time, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			ev.ID, ev.UserID, ev.Category, ev.EventType, ev.ArticleURL, ev.ReadingTime, ev.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert event: %w", err)
		}

		// Aggregate the full history: clicks count click events, reading
		// time averages read events only.
		var clicks int
		var total, avg float64
		err = tx.QueryRowContext(ctx,
			`SELECT
				COUNT(*) FILTER (WHERE event_type = 'click'),
				COALESCE(SUM(reading_time) FILTER (WHERE event_type = 'read'), 0),
				COALESCE(AVG(reading_time) FILTER (WHERE event_type = 'read'), 0)
			FROM user_interactions
			WHERE user_id = ? AND category = ?`,
			ev.UserID, ev.Category,
		).Scan(&clicks, &total, &avg)
		if err != nil {
			return fmt.Errorf("aggregate history: %w", err)
		}

		pref = &CategoryPreference{
			UserID:           ev.UserID,
			Category:         ev.Category,
			Clicks:           clicks,
			TotalReadingTime: total,
			AvgReadingTime:   avg,
			Score:            rank.Score(clicks, avg, w),
			LastUpdated:      time.Now().UnixMilli(),
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO user_preferences (user_id, category, clicks, total_reading_time, avg_reading_time, score, last_updated)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(user_id, category) DO UPDATE SET
				clicks = excluded.clicks,
				total_reading_time = excluded.total_reading_time,
				avg_reading_time = excluded.avg_reading_time,
				score = excluded.score,
				last_updated = excluded.last_updated`,
			pref.UserID, pref.Category, pref.Clicks, pref.TotalReadingTime,
			pref.AvgReadingTime, pref.Score, pref.LastUpdated,
		)
		if err != nil {
			return fmt.Errorf("upsert preference: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pref, nil
}

// ListEvents returns the newest events for a user, most recent first.
func (s *Store) ListEvents(ctx context.Context, userID string, limit int) ([]*InteractionEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, user_id, category, event_type, article_url, reading_time, created_at
		FROM user_interactions
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*InteractionEvent
	for rows.Next() {
		var ev InteractionEvent
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.Category, &ev.EventType,
			&ev.ArticleURL, &ev.ReadingTime, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, &ev)
	}
	return events, rows.Err()
}

// Stats returns aggregate counters over the tracking database.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	err := s.DB.QueryRowContext(ctx,
		`SELECT
			(SELECT COUNT(*) FROM user_interactions),
			(SELECT COUNT(DISTINCT user_id) FROM user_interactions),
			(SELECT COUNT(*) FROM user_preferences)`,
	).Scan(&st.Events, &st.Users, &st.Preferences)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	return &st, nil
}
