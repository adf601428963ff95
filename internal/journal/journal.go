// Package journal is the application layer shared by every surface: it
// validates submissions, appends them, and assembles the page view.
package journal

import (
	"fmt"
	"time"

	"github.com/lazypower/moodlog/internal/mood"
	"github.com/lazypower/moodlog/internal/stats"
	"github.com/lazypower/moodlog/internal/store"
	"go.uber.org/zap"
)

// Journal wires a Store to the weekly aggregation.
type Journal struct {
	store store.Store
	loc   *time.Location
	now   func() time.Time
	log   *zap.Logger
}

// Option customises a Journal.
type Option func(*Journal)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(j *Journal) { j.now = now }
}

// WithLocation sets the timezone that decides what "today" is.
func WithLocation(loc *time.Location) Option {
	return func(j *Journal) {
		if loc != nil {
			j.loc = loc
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(log *zap.Logger) Option {
	return func(j *Journal) {
		if log != nil {
			j.log = log
		}
	}
}

// New creates a Journal over s.
func New(s store.Store, opts ...Option) *Journal {
	j := &Journal{
		store: s,
		loc:   time.Local,
		now:   time.Now,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Store returns the underlying store.
func (j *Journal) Store() store.Store { return j.store }

// Today is the current calendar day in the journal's timezone.
func (j *Journal) Today() time.Time {
	return mood.Today(j.now(), j.loc)
}

// Submit validates a new entry and appends it. A *mood.ValidationError
// means nothing was written.
func (j *Journal) Submit(date time.Time, score int, text string) (mood.Entry, error) {
	e, err := mood.NewEntry(date, score, text)
	if err != nil {
		j.log.Debug("rejected entry", zap.Error(err))
		return mood.Entry{}, err
	}
	if err := j.store.Append(e); err != nil {
		return mood.Entry{}, fmt.Errorf("save entry: %w", err)
	}
	j.log.Info("saved entry", zap.String("date", e.DateString()), zap.Int("mood", e.Mood))
	return e, nil
}

// View is everything a surface renders after a (re)load.
type View struct {
	Today   time.Time
	Summary stats.Summary
	Entries []mood.Entry // newest date first
}

// View loads all entries and summarises the week ending today.
func (j *Journal) View() (View, error) {
	return j.ViewAt(j.Today())
}

// ViewAt is View with an explicit reference day.
func (j *Journal) ViewAt(ref time.Time) (View, error) {
	entries, err := j.store.Load()
	if err != nil {
		return View{}, fmt.Errorf("load entries: %w", err)
	}
	ref = mood.Day(ref)
	return View{
		Today:   ref,
		Summary: stats.Summarize(entries, ref),
		Entries: stats.ByDateDesc(entries),
	}, nil
}
