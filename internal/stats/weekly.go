// Package stats derives the weekly mood summary and display ordering from
// loaded entries. Every function here is pure.
package stats

import (
	"sort"
	"time"

	"github.com/lazypower/moodlog/internal/mood"
)

// WindowDays is the length of the trailing window, reference day included.
const WindowDays = 7

// Window returns the first and last calendar day of the window ending at ref.
func Window(ref time.Time) (from, to time.Time) {
	to = mood.Day(ref)
	return to.AddDate(0, 0, -(WindowDays - 1)), to
}

// InWindow reports whether d falls within the window ending at ref,
// both ends inclusive.
func InWindow(d, ref time.Time) bool {
	from, to := Window(ref)
	day := mood.Day(d)
	return !day.Before(from) && !day.After(to)
}

// WeeklyAverage returns the mean mood of entries dated within the window
// ending at ref. ok is false when no entry falls in the window.
func WeeklyAverage(entries []mood.Entry, ref time.Time) (avg float64, ok bool) {
	var sum, n int
	for _, e := range entries {
		if !InWindow(e.Date, ref) {
			continue
		}
		sum += e.Mood
		n++
	}
	if n == 0 {
		return 0, false
	}
	return float64(sum) / float64(n), true
}

// ByDateDesc returns a copy of entries ordered newest date first.
// Entries sharing a date keep their stored order.
func ByDateDesc(entries []mood.Entry) []mood.Entry {
	out := make([]mood.Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}
