// Package budget tracks how many Unsplash API calls are left in the current
// hourly window.
//
// # Source of truth
//
// The service reports the remaining quota on every response through the
// X-Ratelimit-Remaining header. The Tracker adopts that value verbatim rather
// than counting calls locally, so the budget heals itself after a restart,
// a failed request, or calls made by another client with the same key.
//
// # Persistence
//
// The state is mirrored to a small TOML record so pacing survives restarts:
//
//	count = 12
//	timestamp = "2026-03-01T12:00:00Z"
//
// count is the number of calls spent in the window and timestamp is the
// window start. A missing or corrupt record is treated as nothing spent in a
// window that started an hour ago, which the scheduler turns into an
// immediate rollover. Writes are last-write-wins and never fatal.
//
// # Concurrency
//
// The main loop is the only writer. State returns a copy taken under a read
// lock so callers never observe a half-written window. Remaining is an
// atomic mirror for the manual input listener, whose floor check tolerates a
// stale value.
package budget
