package store

import "fmt"

// IOError is a filesystem or database failure. It is never recovered
// inside the store.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ParseError reports a stored row that does not match the file format.
// Line is 1-based and counts the header.
type ParseError struct {
	Path  string
	Line  int
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	where := fmt.Sprintf("line %d", e.Line)
	if e.Path != "" {
		where = e.Path + ":" + fmt.Sprint(e.Line)
	}
	if e.Value != "" {
		return fmt.Sprintf("parse %s: %s %q: %v", where, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("parse %s: %s: %v", where, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
