package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"subvault/internal/config"
	"subvault/internal/services"
)

// Store wraps the SQLite database holding all persistent daemon state.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the subtitle database for the given
// configuration and applies schema migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "store", "open", "create data directories", err)
	}
	return openPath(cfg.DatabasePath())
}

func openPath(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "store", "open", "open database", err)
	}

	// Single writer; WAL lets CLI reads proceed while the daemon writes.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, services.Wrap(services.ErrConfiguration, "store", "open", fmt.Sprintf("apply %q", pragma), err)
		}
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// CheckHealth verifies the database is reachable.
func (s *Store) CheckHealth(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return services.Wrap(services.ErrTransient, "store", "health", "ping database", err)
	}
	return nil
}

func (s *Store) migrate() error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return services.Wrap(services.ErrConfiguration, "store", "migrate", "apply schema", err)
		}
	}
	return nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS subtitles (
		key TEXT PRIMARY KEY,
		content BLOB NOT NULL,
		source TEXT NOT NULL CHECK (source IN ('remote', 'fallback')),
		size INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS popularity (
		movie_key TEXT PRIMARY KEY,
		request_count INTEGER NOT NULL DEFAULT 0,
		last_requested_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS popularity_languages (
		movie_key TEXT NOT NULL,
		language TEXT NOT NULL,
		PRIMARY KEY (movie_key, language)
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		expires_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS media (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		normalized_title TEXT NOT NULL,
		file_name TEXT NOT NULL DEFAULT '',
		file_size INTEGER NOT NULL DEFAULT 0,
		language TEXT NOT NULL DEFAULT '',
		resolution TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		file_ref TEXT NOT NULL DEFAULT '',
		added_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_media_normalized_title ON media (normalized_title)`,
	`CREATE INDEX IF NOT EXISTS idx_popularity_request_count ON popularity (request_count DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions (expires_at)`,
}

func nowTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
