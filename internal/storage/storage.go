// Package storage persists workspace snapshots.
package storage

import (
	"context"
	"errors"

	"github.com/good-yellow-bee/collabhub/internal/store"
)

// ErrNoSnapshot is returned by Load when nothing has been saved yet.
var ErrNoSnapshot = errors.New("no snapshot stored")

// Storage is the interface for snapshot persistence.
type Storage interface {
	// Open initializes the database connection.
	Open() error
	// Close closes the database connection.
	Close() error
	// Migrate runs database migrations.
	Migrate() error

	// Save replaces the stored snapshot with seed.
	Save(ctx context.Context, seed store.Seed) error
	// Load returns the stored snapshot or ErrNoSnapshot.
	Load(ctx context.Context) (store.Seed, error)
}
