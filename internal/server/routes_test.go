package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/lazypower/moodlog/internal/journal"
	"github.com/lazypower/moodlog/internal/mood"
	"github.com/lazypower/moodlog/internal/store"
)

func postJSON(srv *Server, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func postForm(srv *Server, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/entries", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func get(srv *Server, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
	return w
}

func TestCreateEntry(t *testing.T) {
	srv, s := testServer(t)

	w := postJSON(srv, "/api/entries", `{"date":"2024-01-15","mood":4,"journal":"Had a good walk, outside"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["date"] != "2024-01-15" || resp["mood"] != 4.0 {
		t.Errorf("resp = %v", resp)
	}

	entries, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) != 1 || entries[0].Journal != "Had a good walk, outside" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestCreateEntryDefaultsToToday(t *testing.T) {
	srv, s := testServer(t)

	w := postJSON(srv, "/api/entries", `{"mood":3,"journal":"no date given"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}
	entries, _ := s.Load()
	if len(entries) != 1 || entries[0].DateString() != "2024-01-20" {
		t.Errorf("entries = %+v, want one dated 2024-01-20", entries)
	}
}

func TestCreateEntryValidation(t *testing.T) {
	srv, s := testServer(t)

	tests := []struct {
		body string
		want int
	}{
		{`{"date":"2024-01-15","mood":4,"journal":""}`, http.StatusUnprocessableEntity},
		{`{"date":"2024-01-15","mood":4,"journal":"   "}`, http.StatusUnprocessableEntity},
		{`{"date":"2024-01-15","mood":6,"journal":"too happy"}`, http.StatusUnprocessableEntity},
		{`{"date":"01/15/2024","mood":4,"journal":"bad date"}`, http.StatusBadRequest},
		{`not json`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		w := postJSON(srv, "/api/entries", tt.body)
		if w.Code != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.body, w.Code, tt.want)
		}
	}

	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Error("rejected requests must not create the store file")
	}
}

func TestListEntriesNewestFirst(t *testing.T) {
	srv, _ := testServer(t)

	postJSON(srv, "/api/entries", `{"date":"2024-01-10","mood":2,"journal":"older"}`)
	postJSON(srv, "/api/entries", `{"date":"2024-01-20","mood":5,"journal":"newer"}`)

	w := get(srv, "/api/entries")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Count   int          `json:"count"`
		Entries []mood.Entry `json:"entries"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 2 || resp.Entries[0].DateString() != "2024-01-20" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	srv, _ := testServer(t)

	w := get(srv, "/api/summary")
	var empty map[string]any
	json.Unmarshal(w.Body.Bytes(), &empty)
	if v, ok := empty["average"]; !ok || v != nil {
		t.Errorf("empty average = %v, want null", v)
	}

	postJSON(srv, "/api/entries", `{"date":"2024-01-20","mood":5,"journal":"a"}`)
	postJSON(srv, "/api/entries", `{"date":"2024-01-17","mood":3,"journal":"b"}`)
	postJSON(srv, "/api/entries", `{"date":"2024-01-14","mood":1,"journal":"c"}`)
	postJSON(srv, "/api/entries", `{"date":"2024-01-13","mood":5,"journal":"outside"}`)

	w = get(srv, "/api/summary")
	var sum map[string]any
	json.Unmarshal(w.Body.Bytes(), &sum)
	if sum["average"] != 3.0 || sum["count"] != 3.0 {
		t.Errorf("summary = %v", sum)
	}

	w = get(srv, "/api/summary?date=2024-01-13")
	sum = nil
	json.Unmarshal(w.Body.Bytes(), &sum)
	if sum["average"] != 5.0 || sum["to"] != "2024-01-13" {
		t.Errorf("summary at 2024-01-13 = %v", sum)
	}

	if w := get(srv, "/api/summary?date=yesterday"); w.Code != http.StatusBadRequest {
		t.Errorf("bad date status = %d", w.Code)
	}
}

func TestExportCSV(t *testing.T) {
	srv, _ := testServer(t)
	postJSON(srv, "/api/entries", `{"date":"2024-01-15","mood":4,"journal":"Had a good walk outside"}`)

	w := get(srv, "/api/export.csv")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	want := "\xEF\xBB\xBFdate,mood,journal\n2024-01-15,4,Had a good walk outside\n"
	if w.Body.String() != want {
		t.Errorf("body = %q, want %q", w.Body.String(), want)
	}
}

func TestCorruptStoreIsReported(t *testing.T) {
	srv, s := testServer(t)
	os.WriteFile(s.Path(), []byte("date,mood,journal\n2024-01-15,great,x\n"), 0644)

	if w := get(srv, "/api/entries"); w.Code != http.StatusInternalServerError {
		t.Errorf("entries status = %d, want 500", w.Code)
	}
	if w := get(srv, "/"); w.Code != http.StatusInternalServerError {
		t.Errorf("page status = %d, want 500", w.Code)
	}
}

func TestIndexEmpty(t *testing.T) {
	srv, _ := testServer(t)

	w := get(srv, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{`value="2024-01-20"`, "No entries yet", "😞", "😄", `name="journal"`, `value="1" checked`} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestFormSubmit(t *testing.T) {
	srv, s := testServer(t)

	w := postForm(srv, url.Values{"date": {"2024-01-19"}, "mood": {"4"}, "journal": {"<b>walk</b>, sun"}})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303; body: %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/?saved=1" {
		t.Errorf("Location = %q", loc)
	}

	entries, _ := s.Load()
	if len(entries) != 1 || entries[0].Journal != "<b>walk</b>, sun" {
		t.Fatalf("entries = %+v", entries)
	}

	page := get(srv, "/?saved=1").Body.String()
	for _, want := range []string{"Saved!", "4.0 / 5", "😊 average 4", "2024-01-19", "&lt;b&gt;walk&lt;/b&gt;, sun"} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestFormSubmitBlankJournal(t *testing.T) {
	srv, s := testServer(t)

	w := postForm(srv, url.Values{"date": {"2024-01-19"}, "mood": {"2"}, "journal": {"   "}})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "please write a journal line") {
		t.Error("retry prompt missing from page")
	}
	if !strings.Contains(body, `value="2" checked`) {
		t.Error("selected mood not preserved")
	}
	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Error("blank submit must not touch the store")
	}
}

func TestExportFromSQLite(t *testing.T) {
	db, err := store.OpenSQLiteMemory()
	if err != nil {
		t.Fatalf("OpenSQLiteMemory: %v", err)
	}
	defer db.Close()
	d, _ := mood.ParseDate("2024-01-16")
	db.Append(mood.Entry{Date: d, Mood: 2, Journal: `Stressful "meeting" day`})

	srv := New(journal.New(db), "v", nil)
	w := get(srv, "/api/export.csv")

	entries, err := store.DecodeCSV(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("DecodeCSV: %v", err)
	}
	if len(entries) != 1 || entries[0].Journal != `Stressful "meeting" day` {
		t.Errorf("entries = %+v", entries)
	}
}

func TestIndexErrorFlash(t *testing.T) {
	srv, _ := testServer(t)

	body := get(srv, "/?error="+url.QueryEscape("<disk full>")).Body.String()
	if !strings.Contains(body, "&lt;disk full&gt;") {
		t.Error("error flash missing or unescaped")
	}
}
