package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"subvault/internal/services"
)

// SetSession stores value under key with the given lifetime, replacing any
// existing session.
func (s *Store) SetSession(ctx context.Context, key, value string, ttl time.Duration) error {
	// Second precision keeps expires_at lexicographically comparable.
	expires := time.Now().UTC().Add(ttl).Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (key, value, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, value, expires)
	if err != nil {
		return services.Wrap(services.ErrTransient, "store", "set_session", "upsert session", err)
	}
	return nil
}

// GetSession returns the stored value for key. Expired sessions are treated
// as absent and deleted lazily.
func (s *Store) GetSession(ctx context.Context, key string) (string, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM sessions WHERE key = ?`, key)

	var value, expiresAt string
	if err := row.Scan(&value, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, services.Wrap(services.ErrTransient, "store", "get_session", "query session", err)
	}
	if expiry := parseTimestamp(expiresAt); !expiry.After(time.Now().UTC()) {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE key = ?`, key); err != nil {
			return "", false, services.Wrap(services.ErrTransient, "store", "get_session", "delete expired session", err)
		}
		return "", false, nil
	}
	return value, true, nil
}

// DeleteSession removes a session. Missing keys are not an error.
func (s *Store) DeleteSession(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE key = ?`, key); err != nil {
		return services.Wrap(services.ErrTransient, "store", "delete_session", "delete session", err)
	}
	return nil
}

// PurgeExpiredSessions removes all sessions past their expiry and returns
// the number removed.
func (s *Store) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now)
	if err != nil {
		return 0, services.Wrap(services.ErrTransient, "store", "purge_sessions", "delete expired sessions", err)
	}
	purged, err := result.RowsAffected()
	if err != nil {
		return 0, services.Wrap(services.ErrTransient, "store", "purge_sessions", "count purged sessions", err)
	}
	return purged, nil
}
