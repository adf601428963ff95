package stats

import (
	"encoding/json"
	"time"

	"github.com/lazypower/moodlog/internal/mood"
)

// Summary is the weekly metric shown above the log.
type Summary struct {
	HasEntries bool    // anything stored at all
	HasWeek    bool    // anything inside the window
	Average    float64 // meaningful only when HasWeek
	Rounded    int
	Glyph      string
	Count      int
	From       time.Time
	To         time.Time
}

// Summarize builds the weekly summary for ref.
func Summarize(entries []mood.Entry, ref time.Time) Summary {
	from, to := Window(ref)
	s := Summary{
		HasEntries: len(entries) > 0,
		From:       from,
		To:         to,
	}
	for _, e := range entries {
		if InWindow(e.Date, ref) {
			s.Count++
		}
	}
	avg, ok := WeeklyAverage(entries, ref)
	if !ok {
		return s
	}
	s.HasWeek = true
	s.Average = avg
	s.Rounded = mood.Round(avg)
	s.Glyph = mood.AverageGlyph(avg)
	return s
}

// EmptyMessage is the state text shown instead of an average.
func (s Summary) EmptyMessage() string {
	if !s.HasEntries {
		return "No entries yet. Write your first one!"
	}
	return "No entries this week."
}

func (s Summary) MarshalJSON() ([]byte, error) {
	out := struct {
		Average    *float64 `json:"average"`
		Rounded    *int     `json:"rounded"`
		Glyph      string   `json:"glyph,omitempty"`
		Count      int      `json:"count"`
		From       string   `json:"from"`
		To         string   `json:"to"`
		HasEntries bool     `json:"has_entries"`
		Message    string   `json:"message,omitempty"`
	}{
		Count:      s.Count,
		From:       s.From.Format(mood.DateLayout),
		To:         s.To.Format(mood.DateLayout),
		HasEntries: s.HasEntries,
	}
	if s.HasWeek {
		avg, rounded := s.Average, s.Rounded
		out.Average = &avg
		out.Rounded = &rounded
		out.Glyph = s.Glyph
	} else {
		out.Message = s.EmptyMessage()
	}
	return json.Marshal(out)
}
