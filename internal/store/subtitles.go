package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"subvault/internal/services"
)

// SubtitleSource identifies where cached subtitle content came from.
type SubtitleSource string

const (
	// SourceRemote marks content downloaded from a subtitle provider.
	SourceRemote SubtitleSource = "remote"
	// SourceFallback marks locally synthesized placeholder content.
	SourceFallback SubtitleSource = "fallback"
)

// SubtitleRecord is one cached subtitle entry keyed by normalized
// title and language.
type SubtitleRecord struct {
	Key       string
	Content   []byte
	Source    SubtitleSource
	Size      int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetSubtitle returns the cached record for key, or nil when absent.
func (s *Store) GetSubtitle(ctx context.Context, key string) (*SubtitleRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT key, content, source, size, created_at, updated_at FROM subtitles WHERE key = ?`, key)

	var record SubtitleRecord
	var source, createdAt, updatedAt string
	if err := row.Scan(&record.Key, &record.Content, &source, &record.Size, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, services.Wrap(services.ErrTransient, "store", "get_subtitle", "query subtitle", err)
	}
	record.Source = SubtitleSource(source)
	record.CreatedAt = parseTimestamp(createdAt)
	record.UpdatedAt = parseTimestamp(updatedAt)
	return &record, nil
}

// PutSubtitle inserts or replaces the cached subtitle for key. A fallback
// write never overwrites an existing remote record: real provider content is
// strictly better than a synthesized placeholder, so such writes are silent
// no-ops.
func (s *Store) PutSubtitle(ctx context.Context, key string, content []byte, source SubtitleSource) error {
	if source != SourceRemote && source != SourceFallback {
		return services.Wrap(services.ErrValidation, "store", "put_subtitle", "unknown subtitle source "+string(source), nil)
	}
	now := nowTimestamp()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO subtitles (key, content, source, size, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET
			content = excluded.content,
			source = excluded.source,
			size = excluded.size,
			updated_at = excluded.updated_at
		 WHERE NOT (subtitles.source = 'remote' AND excluded.source = 'fallback')`,
		key, content, string(source), int64(len(content)), now, now)
	if err != nil {
		return services.Wrap(services.ErrTransient, "store", "put_subtitle", "upsert subtitle", err)
	}
	return nil
}

// DeleteSubtitle removes a cached subtitle. Missing keys are not an error.
func (s *Store) DeleteSubtitle(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM subtitles WHERE key = ?`, key); err != nil {
		return services.Wrap(services.ErrTransient, "store", "delete_subtitle", "delete subtitle", err)
	}
	return nil
}

// SubtitleStats summarizes the cache for status reporting.
type SubtitleStats struct {
	Total         int64
	RemoteCount   int64
	FallbackCount int64
	TotalBytes    int64
}

// SubtitleStats returns aggregate counts over the subtitle cache.
func (s *Store) SubtitleStats(ctx context.Context) (SubtitleStats, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN source = 'remote' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN source = 'fallback' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(size), 0)
		 FROM subtitles`)

	var stats SubtitleStats
	if err := row.Scan(&stats.Total, &stats.RemoteCount, &stats.FallbackCount, &stats.TotalBytes); err != nil {
		return SubtitleStats{}, services.Wrap(services.ErrTransient, "store", "subtitle_stats", "aggregate subtitles", err)
	}
	return stats, nil
}
