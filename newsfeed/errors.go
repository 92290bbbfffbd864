// CLAUDE:SUMMARY Sentinel errors for the newsfeed service: invalid input, storage down, source down.
package newsfeed

import "errors"

// ErrInvalidInput is returned when request fields fail validation.
var ErrInvalidInput = errors.New("newsfeed: invalid input")

// ErrStorageUnavailable is returned when the tracking store cannot persist.
// Callers on the read path must treat it as non-fatal: learning is
// best-effort and never blocks article reading.
var ErrStorageUnavailable = errors.New("newsfeed: storage unavailable")

// ErrSourceUnavailable is returned when a category has neither fresh nor
// stale articles. Scoped to one category; other panels remain usable.
var ErrSourceUnavailable = errors.New("newsfeed: news source unavailable")
