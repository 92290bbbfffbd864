// CLAUDE:SUMMARY Preference projection reads: per-user rows and single-pair lookup.
package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Preferences returns all projection rows for a user, unordered.
func (s *Store) Preferences(ctx context.Context, userID string) ([]*CategoryPreference, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT user_id, category, clicks, total_reading_time, avg_reading_time, score, last_updated
		FROM user_preferences WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prefs []*CategoryPreference
	for rows.Next() {
		p, err := scanPreferenceRows(rows)
		if err != nil {
			return nil, err
		}
		prefs = append(prefs, p)
	}
	return prefs, rows.Err()
}

// GetPreference returns the projection for one (user, category) pair, or nil.
func (s *Store) GetPreference(ctx context.Context, userID, category string) (*CategoryPreference, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT user_id, category, clicks, total_reading_time, avg_reading_time, score, last_updated
		FROM user_preferences WHERE user_id = ? AND category = ?`, userID, category)
	var p CategoryPreference
	err := row.Scan(&p.UserID, &p.Category, &p.Clicks, &p.TotalReadingTime,
		&p.AvgReadingTime, &p.Score, &p.LastUpdated)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan preference: %w", err)
	}
	return &p, nil
}

func scanPreferenceRows(rows *sql.Rows) (*CategoryPreference, error) {
	var p CategoryPreference
	err := rows.Scan(&p.UserID, &p.Category, &p.Clicks, &p.TotalReadingTime,
		&p.AvgReadingTime, &p.Score, &p.LastUpdated)
	if err != nil {
		return nil, fmt.Errorf("scan preference: %w", err)
	}
	return &p, nil
}
