// Package tui is the interactive terminal form: pick a date and mood,
// write one line, and watch the weekly average update.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lazypower/moodlog/internal/journal"
	"github.com/lazypower/moodlog/internal/mood"
	"github.com/lazypower/moodlog/internal/render"
)

// recentRows caps the log shown under the form.
const recentRows = 10

type field int

const (
	fieldDate field = iota
	fieldMood
	fieldJournal
	fieldCount
)

// Model is the bubbletea model for the entry form.
type Model struct {
	journal *journal.Journal
	styles  render.Styles

	date   textinput.Model
	text   textinput.Model
	mood   int
	focus  field
	view   journal.View
	status string
	warn   bool
	err    error
}

// New builds the form with today's date and the lowest mood preselected.
func New(j *journal.Journal) Model {
	date := textinput.New()
	date.Placeholder = mood.DateLayout
	date.CharLimit = len(mood.DateLayout)
	date.Width = len(mood.DateLayout) + 1
	date.SetValue(j.Today().Format(mood.DateLayout))

	text := textinput.New()
	text.Placeholder = "Sum up your day in one line..."
	text.CharLimit = 0
	text.Width = 60

	m := Model{
		journal: j,
		styles:  render.DefaultStyles(),
		date:    date,
		text:    text,
		mood:    mood.MinMood,
		focus:   fieldJournal,
	}
	m.text.Focus()
	m.refresh()
	return m
}

// Run starts the program and blocks until the user quits.
func Run(j *journal.Journal) error {
	_, err := tea.NewProgram(New(j)).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateInputs(msg)
	}

	switch key.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "down":
		return m.setFocus((m.focus + 1) % fieldCount)
	case "shift+tab", "up":
		return m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	case "enter":
		m.submit()
		return m, nil
	}

	if m.focus == fieldMood {
		switch s := key.String(); s {
		case "left", "h":
			if m.mood > mood.MinMood {
				m.mood--
			}
		case "right", "l":
			if m.mood < mood.MaxMood {
				m.mood++
			}
		case "1", "2", "3", "4", "5":
			m.mood = int(s[0] - '0')
		}
		return m, nil
	}
	return m.updateInputs(msg)
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case fieldDate:
		m.date, cmd = m.date.Update(msg)
	case fieldJournal:
		m.text, cmd = m.text.Update(msg)
	}
	return m, cmd
}

func (m Model) setFocus(f field) (tea.Model, tea.Cmd) {
	m.focus = f
	m.date.Blur()
	m.text.Blur()
	switch f {
	case fieldDate:
		return m, m.date.Focus()
	case fieldJournal:
		return m, m.text.Focus()
	}
	return m, nil
}

// submit validates and saves the form. The journal line is cleared only
// after a successful write.
func (m *Model) submit() {
	date := m.journal.Today()
	if v := strings.TrimSpace(m.date.Value()); v != "" {
		d, err := mood.ParseDate(v)
		if err != nil {
			m.setStatus(fmt.Sprintf("date must look like %s", mood.DateLayout), true)
			return
		}
		date = d
	}

	e, err := m.journal.Submit(date, m.mood, m.text.Value())
	if err != nil {
		var ve *mood.ValidationError
		if errors.As(err, &ve) {
			m.setStatus(ve.Message, true)
			return
		}
		m.setStatus("Could not save: "+err.Error(), true)
		return
	}

	m.text.Reset()
	m.setStatus(fmt.Sprintf("Saved %s! 🎉", e.DateString()), false)
	m.refresh()
}

func (m *Model) setStatus(s string, warn bool) {
	m.status = s
	m.warn = warn
}

func (m *Model) refresh() {
	view, err := m.journal.View()
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.view = view
}

func (m Model) View() string {
	st := m.styles
	var b strings.Builder

	b.WriteString(st.Title.Render("Daily Mood Tracker 📅"))
	b.WriteString("\n\n")

	b.WriteString(m.label(fieldDate, "Date    "))
	b.WriteString(m.date.View())
	b.WriteString("\n")
	b.WriteString(m.label(fieldMood, "Mood    "))
	b.WriteString(st.MoodChoices(m.mood))
	b.WriteString("\n")
	b.WriteString(m.label(fieldJournal, "Journal "))
	b.WriteString(m.text.View())
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString("\n")
		if m.warn {
			b.WriteString(st.Warning.Render(m.status))
		} else {
			b.WriteString(st.Success.Render(m.status))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(st.Warning.Render("Could not load journal: " + m.err.Error()))
		b.WriteString("\n")
	} else {
		b.WriteString(st.Summary(m.view.Summary))
		b.WriteString("\n\n")
		entries := m.view.Entries
		if len(entries) > recentRows {
			entries = entries[:recentRows]
		}
		b.WriteString(st.Table(entries))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(st.Muted.Render("tab: next field • ←/→ or 1-5: mood • enter: save • esc: quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) label(f field, s string) string {
	if m.focus == f {
		return m.styles.Title.Render("> " + s)
	}
	return m.styles.Muted.Render("  " + s)
}
