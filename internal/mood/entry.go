package mood

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the on-disk and wire format of an entry date.
const DateLayout = "2006-01-02"

// Mood scale bounds.
const (
	MinMood = 1
	MaxMood = 5
)

// ErrValidation is matched by every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError reports input rejected before it reaches storage.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Entry is one journal record. Date always holds midnight UTC of the
// calendar day it refers to.
type Entry struct {
	Date    time.Time
	Mood    int
	Journal string
}

// NewEntry normalises the date and validates the result. It is the only
// place where write-time invariants are enforced.
func NewEntry(date time.Time, mood int, journal string) (Entry, error) {
	e := Entry{
		Date:    Day(date),
		Mood:    mood,
		Journal: journal,
	}
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Validate checks the mood range and that the journal is not blank.
// The journal text itself is kept as given; only the emptiness check trims.
func (e Entry) Validate() error {
	if e.Mood < MinMood || e.Mood > MaxMood {
		return &ValidationError{
			Field:   "mood",
			Message: fmt.Sprintf("must be between %d and %d, got %d", MinMood, MaxMood, e.Mood),
		}
	}
	if strings.TrimSpace(e.Journal) == "" {
		return &ValidationError{Field: "journal", Message: "please write a journal line"}
	}
	return nil
}

// DateString formats the entry date as YYYY-MM-DD.
func (e Entry) DateString() string {
	return e.Date.Format(DateLayout)
}

type entryJSON struct {
	Date    string `json:"date"`
	Mood    int    `json:"mood"`
	Journal string `json:"journal"`
}

func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(entryJSON{
		Date:    e.DateString(),
		Mood:    e.Mood,
		Journal: e.Journal,
	})
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw entryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d, err := ParseDate(raw.Date)
	if err != nil {
		return err
	}
	*e = Entry{Date: d, Mood: raw.Mood, Journal: raw.Journal}
	return nil
}
