package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lazypower/moodlog/internal/mood"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLite is the alternate backend: one entries table in a local database.
type SQLite struct {
	db   *sql.DB
	path string
	log  *zap.Logger
}

// OpenSQLite opens (or creates) the database at path, configures pragmas,
// and runs migrations.
func OpenSQLite(path string, log *zap.Logger) (*SQLite, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &IOError{Op: "mkdir", Path: path, Err: err}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}

	s := &SQLite{db: sqlDB, path: path, log: nopIfNil(log)}
	if err := s.configurePragmas(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	if err := s.migrate(); err != nil {
		sqlDB.Close()
		return nil, &IOError{Op: "migrate", Path: path, Err: err}
	}
	return s, nil
}

// OpenSQLiteMemory opens an in-memory database for testing.
func OpenSQLiteMemory() (*SQLite, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	// Every pooled connection would otherwise get its own empty database.
	sqlDB.SetMaxOpenConns(1)

	s := &SQLite{db: sqlDB, path: ":memory:", log: zap.NewNop()}
	if err := s.configurePragmas(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	if err := s.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLite) configurePragmas() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := s.db.Exec(p); err != nil {
			return fmt.Errorf("pragma %q: %w", p, err)
		}
	}
	return nil
}

func (s *SQLite) Path() string { return s.path }

func (s *SQLite) Close() error { return s.db.Close() }

// Ping checks the database connection.
func (s *SQLite) Ping() error { return s.db.Ping() }

// EnsureInitialized re-runs migrations; already applied ones are skipped.
func (s *SQLite) EnsureInitialized() error {
	if err := s.migrate(); err != nil {
		return &IOError{Op: "migrate", Path: s.path, Err: err}
	}
	return nil
}

// Load returns every entry in insertion order.
func (s *SQLite) Load() ([]mood.Entry, error) {
	rows, err := s.db.Query(`SELECT id, date, mood, journal FROM entries ORDER BY id`)
	if err != nil {
		return nil, &IOError{Op: "query", Path: s.path, Err: err}
	}
	defer rows.Close()

	entries := []mood.Entry{}
	for rows.Next() {
		var (
			id      int64
			date    string
			m       int
			journal string
		)
		if err := rows.Scan(&id, &date, &m, &journal); err != nil {
			return nil, &IOError{Op: "scan", Path: s.path, Err: err}
		}
		d, err := mood.ParseDate(date)
		if err != nil {
			return nil, &ParseError{Path: s.path, Line: int(id), Field: "date", Value: date, Err: err}
		}
		entries = append(entries, mood.Entry{Date: d, Mood: m, Journal: journal})
	}
	if err := rows.Err(); err != nil {
		return nil, &IOError{Op: "query", Path: s.path, Err: err}
	}
	return entries, nil
}

// Append inserts one entry.
func (s *SQLite) Append(e mood.Entry) error {
	_, err := s.db.Exec(`
		INSERT INTO entries (date, mood, journal, created_at)
		VALUES (?, ?, ?, ?)
	`, e.DateString(), e.Mood, e.Journal, time.Now().UnixMilli())
	if err != nil {
		return &IOError{Op: "insert", Path: s.path, Err: err}
	}
	s.log.Debug("appended entry",
		zap.String("path", s.path),
		zap.String("date", e.DateString()),
		zap.Int("mood", e.Mood))
	return nil
}
