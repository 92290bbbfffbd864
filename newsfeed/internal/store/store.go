// Package store provides the data access layer for interaction tracking.
//
// Two tables: user_interactions is the append-only event log,
// user_preferences holds the derived per-user×category projection.
// The projection is always recomputed from the full event history inside
// a single transaction, so concurrent writers converge instead of losing
// increments to read-modify-write races.
package store

import "database/sql"

// Store wraps the tracking database.
type Store struct {
	DB *sql.DB
}

// NewStore creates a Store from an already-opened database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}
