package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/lazypower/moodlog/internal/mood"
	"github.com/lazypower/moodlog/internal/store"
	"go.uber.org/zap"
)

// statusFor maps journal errors to HTTP status codes. Storage and parse
// failures are server errors; the user can only retry.
func statusFor(err error) int {
	if errors.Is(err, mood.ErrValidation) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	view, err := s.journal.View()
	if err != nil {
		s.log.Error("load entries", zap.Error(err))
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(view.Entries),
		"entries": view.Entries,
	})
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date    string `json:"date"`
		Mood    int    `json:"mood"`
		Journal string `json:"journal"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	date, err := s.parseDateOrToday(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	e, err := s.journal.Submit(date, req.Mood, req.Journal)
	if err != nil {
		var ve *mood.ValidationError
		if errors.As(err, &ve) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
				"error": ve.Message,
				"field": ve.Field,
			})
			return
		}
		s.log.Error("save entry", zap.Error(err))
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ref, err := s.parseDateOrToday(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	view, err := s.journal.ViewAt(ref)
	if err != nil {
		s.log.Error("load entries", zap.Error(err))
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view.Summary)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	entries, err := s.journal.Store().Load()
	if err != nil {
		s.log.Error("export", zap.Error(err))
		writeError(w, statusFor(err), err.Error())
		return
	}

	var buf bytes.Buffer
	if err := store.EncodeCSV(&buf, entries); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build export")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="mood_data.csv"`)
	w.Write(buf.Bytes())
}

// parseDateOrToday parses YYYY-MM-DD, defaulting to today when empty.
func (s *Server) parseDateOrToday(v string) (time.Time, error) {
	if v == "" {
		return s.journal.Today(), nil
	}
	return mood.ParseDate(v)
}
