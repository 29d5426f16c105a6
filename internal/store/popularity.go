package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"subvault/internal/services"
)

// PopularityRecord is the demand counter for one movie across all languages.
type PopularityRecord struct {
	MovieKey        string
	RequestCount    int64
	Languages       []string
	LastRequestedAt time.Time
}

// RecordRequest increments the request counter for movieKey and adds the
// language to the movie's requested-language set. Both writes happen in one
// transaction so concurrent requests never lose counts.
func (s *Store) RecordRequest(ctx context.Context, movieKey, language string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return services.Wrap(services.ErrTransient, "store", "record_request", "begin transaction", err)
	}
	defer tx.Rollback()

	now := nowTimestamp()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO popularity (movie_key, request_count, last_requested_at)
		 VALUES (?, 1, ?)
		 ON CONFLICT (movie_key) DO UPDATE SET
			request_count = popularity.request_count + 1,
			last_requested_at = excluded.last_requested_at`,
		movieKey, now); err != nil {
		return services.Wrap(services.ErrTransient, "store", "record_request", "increment request count", err)
	}

	language = strings.ToLower(strings.TrimSpace(language))
	if language != "" {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO popularity_languages (movie_key, language) VALUES (?, ?)`,
			movieKey, language); err != nil {
			return services.Wrap(services.ErrTransient, "store", "record_request", "record language", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return services.Wrap(services.ErrTransient, "store", "record_request", "commit transaction", err)
	}
	return nil
}

// Popularity returns the request count for movieKey, zero when the movie has
// never been requested.
func (s *Store) Popularity(ctx context.Context, movieKey string) (int64, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT request_count FROM popularity WHERE movie_key = ?`, movieKey)

	var count int64
	if err := row.Scan(&count); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, services.Wrap(services.ErrTransient, "store", "popularity", "query request count", err)
	}
	return count, nil
}

// TopMovies returns up to limit movies ordered by request count, most
// recently requested first among ties.
func (s *Store) TopMovies(ctx context.Context, limit int) ([]PopularityRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.movie_key, p.request_count, p.last_requested_at,
			COALESCE((SELECT GROUP_CONCAT(language) FROM (
				SELECT language FROM popularity_languages
				WHERE movie_key = p.movie_key ORDER BY language
			)), '')
		 FROM popularity p
		 ORDER BY p.request_count DESC, p.last_requested_at DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "store", "top_movies", "query popularity", err)
	}
	defer rows.Close()

	var records []PopularityRecord
	for rows.Next() {
		var record PopularityRecord
		var lastRequested, languages string
		if err := rows.Scan(&record.MovieKey, &record.RequestCount, &lastRequested, &languages); err != nil {
			return nil, services.Wrap(services.ErrTransient, "store", "top_movies", "scan popularity row", err)
		}
		record.LastRequestedAt = parseTimestamp(lastRequested)
		if languages != "" {
			record.Languages = strings.Split(languages, ",")
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrTransient, "store", "top_movies", "iterate popularity rows", err)
	}
	return records, nil
}

// PopularityStats summarizes tracked demand for status reporting.
type PopularityStats struct {
	TrackedMovies int64
	TotalRequests int64
}

// PopularityStats returns aggregate counters over the popularity table.
func (s *Store) PopularityStats(ctx context.Context) (PopularityStats, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(request_count), 0) FROM popularity`)

	var stats PopularityStats
	if err := row.Scan(&stats.TrackedMovies, &stats.TotalRequests); err != nil {
		return PopularityStats{}, services.Wrap(services.ErrTransient, "store", "popularity_stats", "aggregate popularity", err)
	}
	return stats, nil
}
