// Package storage contains storage-agnostic contracts for loading the final
// remapped table into a database. Concrete backends register a factory for
// their kind at init time; callers open repositories through New without
// importing backend packages directly.
package storage

import (
	"context"
	"fmt"
	"sync"
)

// Column describes one destination column of the target table.
type Column struct {
	// Name is the column name, taken from the table header.
	Name string

	// Integer marks integer-coded columns; everything else is text.
	Integer bool
}

// Config selects and configures a storage backend.
type Config struct {
	// Kind selects the backend ("sqlite", "postgres").
	Kind string

	// DSN is the backend connection string.
	DSN string

	// Table is the destination table name.
	Table string

	// Columns is the ordered list of destination columns.
	Columns []Column
}

// Repository is the minimal sink interface the load step needs.
type Repository interface {
	// EnsureTable creates the destination table if it does not exist,
	// using the configured columns.
	EnsureTable(ctx context.Context) error

	// CopyFrom bulk-inserts rows aligned to the given column order and
	// returns the number of rows inserted.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)

	// Close releases the backend connection.
	Close() error
}

// Factory opens a Repository for a Config. Backends register one per kind.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the Factory for the given storage kind.
// It is typically called from backend packages' init() functions.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a Repository for cfg.Kind. It fails when no backend has been
// registered for the kind; importing remap/internal/storage/all registers
// all built-in backends.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no storage backend registered for kind %q", cfg.Kind)
	}
	return f(ctx, cfg)
}
