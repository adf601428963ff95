// Package store persists journal entries. The default backend is a flat
// CSV file; SQLite is available as an alternate backend.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lazypower/moodlog/internal/mood"
	"go.uber.org/zap"
)

// Backend names accepted by Open.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// Store is append-only persistence for entries.
type Store interface {
	// EnsureInitialized creates an empty store if none exists. Idempotent.
	EnsureInitialized() error
	// Load returns every entry in insertion order. A missing store is empty.
	Load() ([]mood.Entry, error)
	// Append writes one validated entry after all existing ones.
	Append(e mood.Entry) error
	// Path is where the store lives on disk.
	Path() string
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend string
	Path    string
	Logger  *zap.Logger
}

// Open returns the backend named in opts. An empty path resolves to the
// backend's default location under ~/.moodlog.
func Open(opts Options) (Store, error) {
	backend := opts.Backend
	if backend == "" {
		backend = BackendCSV
	}
	path := opts.Path
	if path == "" {
		var err error
		path, err = DefaultPath(backend)
		if err != nil {
			return nil, fmt.Errorf("resolve store path: %w", err)
		}
	}

	switch backend {
	case BackendCSV:
		return NewCSV(path, opts.Logger), nil
	case BackendSQLite:
		return OpenSQLite(path, opts.Logger)
	default:
		return nil, fmt.Errorf("unknown store backend %q (want %s or %s)", backend, BackendCSV, BackendSQLite)
	}
}

// DefaultDir returns ~/.moodlog.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".moodlog"), nil
}

// DefaultPath returns the default file for a backend:
// ~/.moodlog/mood_data.csv or ~/.moodlog/moodlog.db.
func DefaultPath(backend string) (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	if backend == BackendSQLite {
		return filepath.Join(dir, "moodlog.db"), nil
	}
	return filepath.Join(dir, "mood_data.csv"), nil
}

func nopIfNil(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
