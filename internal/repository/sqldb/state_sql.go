// Package sqldb implements repositories on database/sql. The queries run unchanged on
// PostgreSQL (pgx) and SQLite (modernc).
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lawdesk/internal/repository"
)

// StateSQL is a database/sql implementation of repository.StateRepository backed by the app_state table.
type StateSQL struct {
	db  *sql.DB
	now func() time.Time
}

// NewStateSQL creates a StateSQL repository.
func NewStateSQL(db *sql.DB) *StateSQL {
	return &StateSQL{db: db, now: time.Now}
}

var _ repository.StateRepository = (*StateSQL)(nil)

// Load fetches the snapshot stored under key.
func (r *StateSQL) Load(ctx context.Context, key string) ([]byte, error) {
	const q = `SELECT value FROM app_state WHERE key = $1`
	var value string
	if err := r.db.QueryRowContext(ctx, q, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return []byte(value), nil
}

// Save upserts the snapshot.
func (r *StateSQL) Save(ctx context.Context, key string, value []byte) error {
	const q = `
		INSERT INTO app_state (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, q, key, string(value), r.now().UTC()); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Delete removes the snapshot. It does not return an error if the row does not exist.
func (r *StateSQL) Delete(ctx context.Context, key string) error {
	const q = `DELETE FROM app_state WHERE key = $1`
	if _, err := r.db.ExecContext(ctx, q, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
