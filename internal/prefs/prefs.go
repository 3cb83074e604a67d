// Package prefs persists per-table user preferences such as the visible
// column set. Every backend stores opaque values under (namespace, key).
package prefs

import (
	"context"
	"errors"
	"fmt"

	"github.com/JonMunkholm/datagrid/internal/grid"
)

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown preference backend")

// Store is a preference store that owns resources.
type Store interface {
	grid.PreferenceStore
	Close() error
}

// Options configures Open.
type Options struct {
	Backend     string
	SQLitePath  string
	DatabaseURL string
	MaxConns    int
}

// Open returns the store for opts.Backend. An empty backend means memory.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemory(), nil
	case BackendSQLite:
		return OpenSQLite(ctx, opts.SQLitePath)
	case BackendPostgres:
		return OpenPostgres(ctx, opts.DatabaseURL, opts.MaxConns)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
}
