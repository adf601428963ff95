// Package client talks to a running `moodlog serve`.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lazypower/moodlog/internal/mood"
	"github.com/lazypower/moodlog/internal/stats"
)

const httpTimeout = 5 * time.Second

// Client talks to the moodlog server.
type Client struct {
	http      *http.Client
	serverURL string
}

// New creates a client for serverURL, e.g. http://127.0.0.1:37778.
func New(serverURL string) *Client {
	return &Client{
		http:      &http.Client{Timeout: httpTimeout},
		serverURL: strings.TrimRight(serverURL, "/"),
	}
}

// URL is the server base URL.
func (c *Client) URL() string { return c.serverURL }

// StatusError is a non-2xx reply. Message is the server's error text;
// Field names the rejected input on a 422.
type StatusError struct {
	Status  int
	Message string
	Field   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Post sends a POST request with JSON body. Returns response body.
func (c *Client) Post(path string, body []byte) ([]byte, error) {
	resp, err := c.http.Post(c.serverURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", path, err)
	}
	return readBody(resp, "POST", path)
}

// Get sends a GET request. Returns response body.
func (c *Client) Get(path string) ([]byte, error) {
	resp, err := c.http.Get(c.serverURL + path)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	return readBody(resp, "GET", path)
}

func readBody(resp *http.Response, method, path string) ([]byte, error) {
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response %s: %w", path, err)
	}
	if resp.StatusCode >= 400 {
		var body struct {
			Error string `json:"error"`
			Field string `json:"field"`
		}
		se := &StatusError{Status: resp.StatusCode, Message: string(data)}
		if json.Unmarshal(data, &body) == nil && body.Error != "" {
			se.Message = body.Error
			se.Field = body.Field
		}
		return data, fmt.Errorf("%s %s: %w", method, path, se)
	}
	return data, nil
}

// Healthy checks if the server is reachable.
func (c *Client) Healthy() bool {
	resp, err := c.http.Get(c.serverURL + "/api/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// AddEntry submits an entry. A 422 reply comes back as *mood.ValidationError
// so callers handle it the same way as a local submit.
func (c *Client) AddEntry(date time.Time, score int, journal string) (mood.Entry, error) {
	body, err := json.Marshal(map[string]any{
		"date":    date.Format(mood.DateLayout),
		"mood":    score,
		"journal": journal,
	})
	if err != nil {
		return mood.Entry{}, err
	}

	data, err := c.Post("/api/entries", body)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Status == http.StatusUnprocessableEntity {
			return mood.Entry{}, &mood.ValidationError{Field: se.Field, Message: se.Message}
		}
		return mood.Entry{}, err
	}

	var e mood.Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return mood.Entry{}, fmt.Errorf("decode entry: %w", err)
	}
	return e, nil
}

// Entries returns all entries, newest date first.
func (c *Client) Entries() ([]mood.Entry, error) {
	data, err := c.Get("/api/entries")
	if err != nil {
		return nil, err
	}
	var resp struct {
		Entries []mood.Entry `json:"entries"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode entries: %w", err)
	}
	return resp.Entries, nil
}

// Summary fetches the weekly summary ending at ref.
func (c *Client) Summary(ref time.Time) (stats.Summary, error) {
	data, err := c.Get("/api/summary?date=" + url.QueryEscape(ref.Format(mood.DateLayout)))
	if err != nil {
		return stats.Summary{}, err
	}
	var resp struct {
		Average    *float64 `json:"average"`
		Rounded    *int     `json:"rounded"`
		Glyph      string   `json:"glyph"`
		Count      int      `json:"count"`
		From       string   `json:"from"`
		To         string   `json:"to"`
		HasEntries bool     `json:"has_entries"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return stats.Summary{}, fmt.Errorf("decode summary: %w", err)
	}

	s := stats.Summary{HasEntries: resp.HasEntries, Count: resp.Count, Glyph: resp.Glyph}
	if s.From, err = mood.ParseDate(resp.From); err != nil {
		return stats.Summary{}, fmt.Errorf("decode summary from: %w", err)
	}
	if s.To, err = mood.ParseDate(resp.To); err != nil {
		return stats.Summary{}, fmt.Errorf("decode summary to: %w", err)
	}
	if resp.Average != nil {
		s.HasWeek = true
		s.Average = *resp.Average
		if resp.Rounded != nil {
			s.Rounded = *resp.Rounded
		}
	}
	return s, nil
}
