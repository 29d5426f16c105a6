package store

import (
	"context"
	"strings"
	"time"

	"subvault/internal/services"
)

// MediaRecord is one catalog entry describing an indexed media file.
type MediaRecord struct {
	ID              int64
	Title           string
	NormalizedTitle string
	FileName        string
	FileSize        int64
	Language        string
	Resolution      string
	Category        string
	FileRef         string
	AddedAt         time.Time
}

// MediaFilter narrows catalog listings. Empty fields match everything.
type MediaFilter struct {
	Language   string
	Resolution string
	Category   string
}

// AddMedia inserts a catalog entry and returns its assigned ID.
func (s *Store) AddMedia(ctx context.Context, record MediaRecord) (int64, error) {
	addedAt := record.AddedAt
	if addedAt.IsZero() {
		addedAt = time.Now().UTC()
	}
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO media (title, normalized_title, file_name, file_size, language, resolution, category, file_ref, added_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.Title, record.NormalizedTitle, record.FileName, record.FileSize,
		strings.ToLower(record.Language), strings.ToLower(record.Resolution),
		strings.ToLower(record.Category), record.FileRef,
		addedAt.Format(time.RFC3339Nano))
	if err != nil {
		return 0, services.Wrap(services.ErrTransient, "store", "add_media", "insert media", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, services.Wrap(services.ErrTransient, "store", "add_media", "read insert id", err)
	}
	return id, nil
}

// ListMedia returns catalog entries matching the filter, newest first.
func (s *Store) ListMedia(ctx context.Context, filter MediaFilter) ([]MediaRecord, error) {
	query := `SELECT id, title, normalized_title, file_name, file_size, language, resolution, category, file_ref, added_at
		 FROM media WHERE 1 = 1`
	var args []any
	if filter.Language != "" {
		query += ` AND language = ?`
		args = append(args, strings.ToLower(filter.Language))
	}
	if filter.Resolution != "" {
		query += ` AND resolution = ?`
		args = append(args, strings.ToLower(filter.Resolution))
	}
	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, strings.ToLower(filter.Category))
	}
	query += ` ORDER BY added_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "store", "list_media", "query media", err)
	}
	defer rows.Close()

	var records []MediaRecord
	for rows.Next() {
		var record MediaRecord
		var addedAt string
		if err := rows.Scan(&record.ID, &record.Title, &record.NormalizedTitle, &record.FileName,
			&record.FileSize, &record.Language, &record.Resolution, &record.Category,
			&record.FileRef, &addedAt); err != nil {
			return nil, services.Wrap(services.ErrTransient, "store", "list_media", "scan media row", err)
		}
		record.AddedAt = parseTimestamp(addedAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrTransient, "store", "list_media", "iterate media rows", err)
	}
	return records, nil
}

// CountMedia returns the number of catalog entries.
func (s *Store) CountMedia(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM media`).Scan(&count); err != nil {
		return 0, services.Wrap(services.ErrTransient, "store", "count_media", "count media", err)
	}
	return count, nil
}
