// Package render draws the weekly summary and the entry log for terminals.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lazypower/moodlog/internal/mood"
	"github.com/lazypower/moodlog/internal/stats"
)

// Styles groups the lipgloss styles shared by the CLI and the TUI.
type Styles struct {
	Title    lipgloss.Style
	Metric   lipgloss.Style
	Muted    lipgloss.Style
	Header   lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Selected lipgloss.Style
}

// DefaultStyles returns the standard palette.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true),
		Metric: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		Header: lipgloss.NewStyle().
			Bold(true).
			Underline(true),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFB000")).
			Bold(true),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
	}
}

// Summary renders the weekly metric, or the empty-state message.
func (st Styles) Summary(s stats.Summary) string {
	var b strings.Builder
	b.WriteString(st.Title.Render("This week"))
	b.WriteString(st.Muted.Render(fmt.Sprintf("  %s … %s",
		s.From.Format(mood.DateLayout), s.To.Format(mood.DateLayout))))
	b.WriteString("\n")

	if !s.HasWeek {
		b.WriteString(st.Muted.Render(s.EmptyMessage()))
		return b.String()
	}

	b.WriteString(st.Metric.Render(fmt.Sprintf("%.1f / 5", s.Average)))
	b.WriteString(fmt.Sprintf("  %s average %d", s.Glyph, s.Rounded))
	b.WriteString(st.Muted.Render(fmt.Sprintf("  (%d %s)", s.Count, plural(s.Count, "entry", "entries"))))
	return b.String()
}

// Table renders entries in the order given, one row each.
func (st Styles) Table(entries []mood.Entry) string {
	if len(entries) == 0 {
		return st.Muted.Render("No entries yet. Write your first one!")
	}

	const dateWidth = len(mood.DateLayout)
	var b strings.Builder
	b.WriteString(st.Header.Render(pad("Date", dateWidth)))
	b.WriteString("  ")
	b.WriteString(st.Header.Render("Mood"))
	b.WriteString("  ")
	b.WriteString(st.Header.Render("Journal"))
	for _, e := range entries {
		glyph, _ := mood.Glyph(e.Mood)
		b.WriteString("\n")
		b.WriteString(e.DateString())
		b.WriteString("  ")
		b.WriteString(pad(glyph, len("Mood")))
		b.WriteString("  ")
		b.WriteString(oneLine(e.Journal))
	}
	return b.String()
}

// MoodChoices renders the 1–5 scale, highlighting selected (0 for none).
func (st Styles) MoodChoices(selected int) string {
	parts := make([]string, 0, mood.MaxMood)
	for _, m := range mood.Scale() {
		g, _ := mood.Glyph(m)
		label := fmt.Sprintf("%s %d", g, m)
		if m == selected {
			parts = append(parts, st.Selected.Render(label))
		} else {
			parts = append(parts, lipgloss.NewStyle().Padding(0, 1).Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// pad right-fills s with spaces to w terminal cells.
func pad(s string, w int) string {
	if n := lipgloss.Width(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "\n", " ")), " ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
