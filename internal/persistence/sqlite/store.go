package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/campshare/internal/persistence"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS kv_buckets (
		name       TEXT PRIMARY KEY,
		payload    BLOB NOT NULL,
		updated_at TEXT NOT NULL
	)`,
}

// Store persists bucket payloads in a kv_buckets table.
type Store struct {
	pool   *ConnectionPool
	retry  *RetryHelper
	mapper ErrorMapper
	now    func() time.Time
}

// Open connects to the database described by cfg.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	pool, err := NewConnectionPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{
		pool:  pool,
		retry: NewRetryHelper(DefaultRetryConfig()),
		now:   func() time.Time { return time.Now().UTC() },
	}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	if s == nil || s.pool == nil {
		return nil
	}
	return s.pool.Close()
}

// Migrate applies the schema.
func (s *Store) Migrate(ctx context.Context) error {
	return s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, statement := range schema {
			if _, err := tx.ExecContext(ctx, statement); err != nil {
				return fmt.Errorf("failed to apply schema: %w", err)
			}
		}
		return nil
	})
}

// Get returns the payload stored for key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := s.pool.DB().QueryRowContext(ctx, `SELECT payload FROM kv_buckets WHERE name = ?`, key).Scan(&payload)
	if err != nil {
		return nil, s.mapper.MapError(err)
	}
	return payload, nil
}

// Set upserts the payload for key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	updatedAt := s.now().Format(time.RFC3339Nano)
	return s.retry.WithRetry(ctx, func() error {
		_, err := s.pool.DB().ExecContext(ctx,
			`INSERT INTO kv_buckets (name, payload, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
			key, value, updatedAt)
		return err
	})
}

// Delete removes key. It returns persistence.ErrNotFound when nothing was deleted.
func (s *Store) Delete(ctx context.Context, key string) error {
	var affected int64
	err := s.retry.WithRetry(ctx, func() error {
		result, err := s.pool.DB().ExecContext(ctx, `DELETE FROM kv_buckets WHERE name = ?`, key)
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// UpdatedAt reports when key was last written.
func (s *Store) UpdatedAt(ctx context.Context, key string) (time.Time, error) {
	var raw string
	err := s.pool.DB().QueryRowContext(ctx, `SELECT updated_at FROM kv_buckets WHERE name = ?`, key).Scan(&raw)
	if err != nil {
		return time.Time{}, s.mapper.MapError(err)
	}
	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse updated_at for %s: %w", key, err)
	}
	return parsed, nil
}
