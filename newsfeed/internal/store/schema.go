// CLAUDE:SUMMARY Applies the tracking schema: append-only event log plus the per-user×category preference projection.
package store

import "database/sql"

// Schema is the complete tracking schema.
const Schema = `
-- Raw interaction events, append-only
CREATE TABLE IF NOT EXISTS user_interactions (
    id              TEXT PRIMARY KEY,
    user_id         TEXT NOT NULL,
    category        TEXT NOT NULL,
    event_type      TEXT NOT NULL CHECK (event_type IN ('click', 'read')),
    article_url     TEXT NOT NULL DEFAULT '',
    reading_time    REAL NOT NULL DEFAULT 0,
    created_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_interactions_user_category
    ON user_interactions(user_id, category, event_type);

-- Derived projection, one row per user×category
CREATE TABLE IF NOT EXISTS user_preferences (
    user_id            TEXT NOT NULL,
    category           TEXT NOT NULL,
    clicks             INTEGER NOT NULL DEFAULT 0,
    total_reading_time REAL NOT NULL DEFAULT 0,
    avg_reading_time   REAL NOT NULL DEFAULT 0,
    score              REAL NOT NULL DEFAULT 0,
    last_updated       INTEGER NOT NULL,
    PRIMARY KEY (user_id, category)
);
CREATE INDEX IF NOT EXISTS idx_preferences_user ON user_preferences(user_id);
`

// ApplySchema creates the tracking tables if they do not exist.
func ApplySchema(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}
