// Package history provides persistent storage for analysis runs.
//
// Runs are stored in a SQLite database: the full backend payload as JSON
// plus indexed summary columns (score, tier, mismatch count, entities) so
// history listings and recurrence queries never deserialize whole payloads.
//
// Design decision: We use SQLite via modernc.org/sqlite (pure Go, no cgo)
// for cross-platform compatibility. The store replaces the backend's
// flat-file run memory with the same retention semantics: saving a run
// beyond the retention limit prunes the oldest.
package history
