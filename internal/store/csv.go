package store

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/lazypower/moodlog/internal/mood"
	"go.uber.org/zap"
)

// CSV is the flat-file backend. Appends from one process are serialised;
// other processes writing the same file are not coordinated with.
type CSV struct {
	path string
	log  *zap.Logger
	mu   sync.Mutex
}

// NewCSV returns a CSV store at path. Nothing touches the disk until the
// first call.
func NewCSV(path string, log *zap.Logger) *CSV {
	return &CSV{path: path, log: nopIfNil(log)}
}

func (s *CSV) Path() string { return s.path }

func (s *CSV) Close() error { return nil }

// EnsureInitialized creates the file with only the header row if it does
// not exist yet.
func (s *CSV) EnsureInitialized() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureInitialized()
}

func (s *CSV) ensureInitialized() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return &IOError{Op: "stat", Path: s.path, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return &IOError{Op: "mkdir", Path: s.path, Err: err}
	}
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, os.ErrExist) {
		// Another process created it between Stat and here.
		return nil
	}
	if err != nil {
		return &IOError{Op: "create", Path: s.path, Err: err}
	}
	if err := EncodeCSV(f, nil); err != nil {
		f.Close()
		return &IOError{Op: "write header", Path: s.path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Op: "close", Path: s.path, Err: err}
	}
	s.log.Debug("initialized journal file", zap.String("path", s.path))
	return nil
}

// Load decodes the whole file. A missing file yields no entries and no
// error; a corrupt one fails with *ParseError.
func (s *CSV) Load() ([]mood.Entry, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []mood.Entry{}, nil
	}
	if err != nil {
		return nil, &IOError{Op: "open", Path: s.path, Err: err}
	}
	defer f.Close()

	entries, err := DecodeCSV(f)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = s.path
			return nil, pe
		}
		return nil, &IOError{Op: "read", Path: s.path, Err: err}
	}
	return entries, nil
}

// Append writes e as one new row at the end of the file, creating the file
// first if needed. The row is written with a single write on an O_APPEND
// descriptor.
func (s *CSV) Append(e mood.Entry) error {
	row, err := encodeRows(e)
	if err != nil {
		return &IOError{Op: "encode", Path: s.path, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureInitialized(); err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return &IOError{Op: "open", Path: s.path, Err: err}
	}

	missingNewline, err := lacksTrailingNewline(f)
	if err != nil {
		f.Close()
		return &IOError{Op: "read", Path: s.path, Err: err}
	}
	if missingNewline {
		row = append([]byte{'\n'}, row...)
	}

	if _, err := f.Write(row); err != nil {
		f.Close()
		return &IOError{Op: "append", Path: s.path, Err: err}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return &IOError{Op: "sync", Path: s.path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Op: "close", Path: s.path, Err: err}
	}

	s.log.Debug("appended entry",
		zap.String("path", s.path),
		zap.String("date", e.DateString()),
		zap.Int("mood", e.Mood))
	return nil
}

// lacksTrailingNewline reports whether a non-empty file's last byte is
// something other than '\n', as left by hand edits.
func lacksTrailingNewline(f *os.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return false, nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil && err != io.EOF {
		return false, err
	}
	return last[0] != '\n', nil
}
