// Package repository defines persistence contracts. Implementations hold no business logic.
package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no row exists for a key.
var ErrNotFound = errors.New("state not found")

// StateRepository stores opaque JSON snapshots of client state by key.
type StateRepository interface {
	// Load returns the snapshot stored under key, or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)
	// Save inserts or replaces the snapshot under key.
	Save(ctx context.Context, key string, value []byte) error
	// Delete removes the snapshot. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
