// Package store provides SQLite-backed persistence for subtitles,
// popularity counters, catalog media entries, and short-lived API sessions.
//
// All state lives in a single database file under the configured data
// directory. The store opens the database in WAL mode with a busy timeout so
// the daemon and CLI can share it. Timestamps are stored as RFC 3339 strings
// in UTC.
package store
