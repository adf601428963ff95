package stats

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/lazypower/moodlog/internal/mood"
)

func day(s string) time.Time {
	d, err := mood.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func entry(date string, m int) mood.Entry {
	return mood.Entry{Date: day(date), Mood: m, Journal: "note " + date}
}

func TestWindow(t *testing.T) {
	from, to := Window(time.Date(2024, 1, 20, 18, 45, 0, 0, time.UTC))
	if got := from.Format(mood.DateLayout); got != "2024-01-14" {
		t.Errorf("from = %s, want 2024-01-14", got)
	}
	if got := to.Format(mood.DateLayout); got != "2024-01-20" {
		t.Errorf("to = %s, want 2024-01-20", got)
	}
}

func TestWindowInclusivity(t *testing.T) {
	ref := day("2024-01-20")

	if _, ok := WeeklyAverage([]mood.Entry{entry("2024-01-14", 4)}, ref); !ok {
		t.Error("entry at D-6 should be inside the window")
	}
	if _, ok := WeeklyAverage([]mood.Entry{entry("2024-01-13", 4)}, ref); ok {
		t.Error("entry at D-7 should be outside the window")
	}
	if _, ok := WeeklyAverage([]mood.Entry{entry("2024-01-20", 4)}, ref); !ok {
		t.Error("entry at D should be inside the window")
	}
}

func TestWeeklyAverageEmpty(t *testing.T) {
	ref := day("2024-01-20")

	if avg, ok := WeeklyAverage(nil, ref); ok {
		t.Errorf("empty input: got %v, want no value", avg)
	}

	outside := []mood.Entry{
		entry("2024-01-01", 5),
		entry("2024-01-13", 5),
		entry("2024-01-21", 5), // future
	}
	if avg, ok := WeeklyAverage(outside, ref); ok {
		t.Errorf("all outside window: got %v, want no value", avg)
	}
}

func TestWeeklyAverageMean(t *testing.T) {
	ref := day("2024-01-20")
	entries := []mood.Entry{
		entry("2024-01-20", 5),
		entry("2024-01-18", 3),
		entry("2024-01-14", 1),
		entry("2024-01-02", 5), // ignored
	}
	avg, ok := WeeklyAverage(entries, ref)
	if !ok {
		t.Fatal("expected a value")
	}
	if avg != 3.0 {
		t.Errorf("avg = %v, want 3.0", avg)
	}
}

func TestWeeklyAverageDuplicateDates(t *testing.T) {
	ref := day("2024-01-20")
	entries := []mood.Entry{entry("2024-01-19", 2), entry("2024-01-19", 5)}
	avg, _ := WeeklyAverage(entries, ref)
	if avg != 3.5 {
		t.Errorf("avg = %v, want 3.5", avg)
	}
}

func TestWeeklyAverageIgnoresTimeOfDay(t *testing.T) {
	ref := time.Date(2024, 1, 20, 0, 0, 1, 0, time.UTC)
	e := mood.Entry{Date: time.Date(2024, 1, 20, 23, 59, 0, 0, time.UTC), Mood: 4}
	if _, ok := WeeklyAverage([]mood.Entry{e}, ref); !ok {
		t.Error("same calendar day should be inside the window regardless of time")
	}
}

func TestByDateDesc(t *testing.T) {
	in := []mood.Entry{
		entry("2024-01-10", 1),
		entry("2024-01-20", 2),
		{Date: day("2024-01-10"), Mood: 3, Journal: "second on the 10th"},
	}
	got := ByDateDesc(in)

	want := []mood.Entry{in[1], in[0], in[2]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ByDateDesc mismatch (-want +got):\n%s", diff)
	}
	if in[0].Mood != 1 {
		t.Error("ByDateDesc must not reorder its input")
	}
}

func TestSummarize(t *testing.T) {
	ref := day("2024-01-20")

	empty := Summarize(nil, ref)
	if empty.HasEntries || empty.HasWeek {
		t.Errorf("empty summary = %+v", empty)
	}
	if empty.EmptyMessage() != "No entries yet. Write your first one!" {
		t.Errorf("EmptyMessage = %q", empty.EmptyMessage())
	}

	stale := Summarize([]mood.Entry{entry("2023-12-01", 4)}, ref)
	if !stale.HasEntries || stale.HasWeek {
		t.Errorf("stale summary = %+v", stale)
	}
	if stale.EmptyMessage() != "No entries this week." {
		t.Errorf("EmptyMessage = %q", stale.EmptyMessage())
	}

	s := Summarize([]mood.Entry{entry("2024-01-19", 4), entry("2024-01-20", 5)}, ref)
	if !s.HasWeek || s.Average != 4.5 || s.Rounded != 5 || s.Glyph != "😄" || s.Count != 2 {
		t.Errorf("summary = %+v", s)
	}
}

func TestSummaryJSON(t *testing.T) {
	ref := day("2024-01-20")

	data, err := json.Marshal(Summarize(nil, ref))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if v, present := body["average"]; !present || v != nil {
		t.Errorf("average = %v (present=%v), want explicit null", v, present)
	}
	if body["from"] != "2024-01-14" || body["to"] != "2024-01-20" {
		t.Errorf("window = %v..%v", body["from"], body["to"])
	}

	data, _ = json.Marshal(Summarize([]mood.Entry{entry("2024-01-20", 5), entry("2024-01-19", 3), entry("2024-01-18", 1)}, ref))
	body = nil
	json.Unmarshal(data, &body)
	if body["average"] != 3.0 {
		t.Errorf("average = %v, want 3", body["average"])
	}
}
