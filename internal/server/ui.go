package server

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/lazypower/moodlog/internal/journal"
	"github.com/lazypower/moodlog/internal/mood"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type moodChoice struct {
	Value   int
	Glyph   string
	Checked bool
}

type pageRow struct {
	Date    string
	Glyph   string
	Journal string
}

type pageData struct {
	Summary  summaryData
	Rows     []pageRow
	Choices  []moodChoice
	FormDate string
	Journal  string
	Saved    bool
	Error    string
}

type summaryData struct {
	HasWeek bool
	Average string
	Glyph   string
	Rounded int
	Count   int
	From    string
	To      string
	Message string
}

// formValues is what the user typed, echoed back after a rejected submit.
type formValues struct {
	date    string
	mood    int
	journal string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	today := s.journal.Today().Format(mood.DateLayout)
	form := formValues{date: today, mood: mood.MinMood}
	q := r.URL.Query()
	s.renderPage(w, http.StatusOK, form, q.Get("saved") == "1", q.Get("error"))
}

func (s *Server) handleSubmitForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := formValues{
		date:    r.PostFormValue("date"),
		journal: r.PostFormValue("journal"),
	}
	form.mood, _ = strconv.Atoi(r.PostFormValue("mood"))

	date, err := s.parseDateOrToday(form.date)
	if err != nil {
		s.renderPage(w, http.StatusBadRequest, form, false, err.Error())
		return
	}

	if _, err := s.journal.Submit(date, form.mood, form.journal); err != nil {
		var ve *mood.ValidationError
		if errors.As(err, &ve) {
			s.renderPage(w, http.StatusUnprocessableEntity, form, false, ve.Message)
			return
		}
		s.log.Error("save entry", zap.Error(err))
		s.renderPage(w, http.StatusInternalServerError, form, false, "Could not save: "+err.Error())
		return
	}

	http.Redirect(w, r, "/?saved=1", http.StatusSeeOther)
}

func (s *Server) renderPage(w http.ResponseWriter, status int, form formValues, saved bool, formErr string) {
	view, err := s.journal.View()
	if err != nil {
		s.log.Error("load entries", zap.Error(err))
		http.Error(w, "Could not load journal: "+err.Error(), http.StatusInternalServerError)
		return
	}

	data := pageData{
		Summary:  summarize(view),
		FormDate: form.date,
		Journal:  form.journal,
		Saved:    saved,
		Error:    formErr,
	}
	for _, m := range mood.Scale() {
		g, _ := mood.Glyph(m)
		data.Choices = append(data.Choices, moodChoice{Value: m, Glyph: g, Checked: m == form.mood})
	}
	for _, e := range view.Entries {
		g, _ := mood.Glyph(e.Mood)
		data.Rows = append(data.Rows, pageRow{Date: e.DateString(), Glyph: g, Journal: e.Journal})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.page.Execute(w, data); err != nil {
		s.log.Error("render page", zap.Error(err))
	}
}

func summarize(v journal.View) summaryData {
	sum := v.Summary
	out := summaryData{
		HasWeek: sum.HasWeek,
		Count:   sum.Count,
		From:    sum.From.Format(mood.DateLayout),
		To:      sum.To.Format(mood.DateLayout),
	}
	if !sum.HasWeek {
		out.Message = sum.EmptyMessage()
		return out
	}
	out.Average = strconv.FormatFloat(sum.Average, 'f', 1, 64)
	out.Glyph = sum.Glyph
	out.Rounded = sum.Rounded
	return out
}
