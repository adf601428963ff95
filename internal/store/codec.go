package store

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lazypower/moodlog/internal/mood"
)

// Header is the fixed first row of every journal file.
var Header = []string{"date", "mood", "journal"}

// bom is the UTF-8 byte-order mark spreadsheet tools expect.
var bom = []byte{0xEF, 0xBB, 0xBF}

var (
	errMissingHeader = errors.New("missing header row")
	errBadHeader     = errors.New(`header must be "date,mood,journal"`)
	errFieldCount    = errors.New("want 3 fields")
	errNotInteger    = errors.New("not an integer")
)

// EncodeCSV writes a complete journal file: BOM, header, one row per entry.
func EncodeCSV(w io.Writer, entries []mood.Entry) error {
	if _, err := w.Write(bom); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write(encodeRow(e)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// encodeRows renders rows only, for appending to an existing file.
func encodeRows(entries ...mood.Entry) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	for _, e := range entries {
		if err := cw.Write(encodeRow(e)); err != nil {
			return nil, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeRow(e mood.Entry) []string {
	return []string{e.DateString(), strconv.Itoa(e.Mood), e.Journal}
}

// DecodeCSV reads a journal file. A leading BOM is optional. The first
// malformed row aborts the decode with a *ParseError.
func DecodeCSV(r io.Reader) ([]mood.Entry, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(bom)); err == nil && bytes.Equal(head, bom) {
		br.Discard(len(bom))
	}

	cr := csv.NewReader(&quotedCRReader{r: br})
	cr.FieldsPerRecord = -1

	header, err := readRecord(cr)
	if err == io.EOF {
		return nil, &ParseError{Line: 1, Field: "header", Err: errMissingHeader}
	}
	if err != nil {
		return nil, csvParseError(err)
	}
	if !isHeader(header) {
		return nil, &ParseError{Line: 1, Field: "header", Err: errBadHeader}
	}

	entries := []mood.Entry{}
	for {
		rec, err := readRecord(cr)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvParseError(err)
		}
		line, _ := cr.FieldPos(0)
		e, err := decodeRow(rec, line)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func decodeRow(rec []string, line int) (mood.Entry, error) {
	if len(rec) != len(Header) {
		return mood.Entry{}, &ParseError{
			Line:  line,
			Field: "row",
			Err:   fmt.Errorf("%w, got %d", errFieldCount, len(rec)),
		}
	}
	d, err := mood.ParseDate(rec[0])
	if err != nil {
		return mood.Entry{}, &ParseError{Line: line, Field: "date", Value: rec[0], Err: err}
	}
	m, err := strconv.Atoi(rec[1])
	if err != nil {
		return mood.Entry{}, &ParseError{Line: line, Field: "mood", Value: rec[1], Err: errNotInteger}
	}
	return mood.Entry{Date: d, Mood: m, Journal: rec[2]}, nil
}

func isHeader(rec []string) bool {
	if len(rec) != len(Header) {
		return false
	}
	for i := range Header {
		if rec[i] != Header[i] {
			return false
		}
	}
	return true
}

func csvParseError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Line: pe.Line, Field: "row", Err: pe.Err}
	}
	return err
}

// csv.Reader folds "\r\n" inside a quoted field into "\n". quotedCRReader
// escapes every carriage return inside quotes before the csv reader sees it,
// and readRecord reverses the escape, so journal text round-trips exactly.
// crEscape never occurs in UTF-8 text; a literal one is doubled.
const crEscape = 0xFF

type quotedCRReader struct {
	r      io.Reader
	buf    []byte
	out    []byte
	quoted bool
	err    error
}

func (q *quotedCRReader) Read(p []byte) (int, error) {
	for len(q.out) == 0 {
		if q.err != nil {
			return 0, q.err
		}
		if q.buf == nil {
			q.buf = make([]byte, 4096)
		}
		n, err := q.r.Read(q.buf)
		q.out = q.out[:0]
		for _, c := range q.buf[:n] {
			switch {
			case c == crEscape:
				q.out = append(q.out, crEscape, crEscape)
			case c == '"':
				q.quoted = !q.quoted
				q.out = append(q.out, c)
			case c == '\r' && q.quoted:
				q.out = append(q.out, crEscape, 'r')
			default:
				q.out = append(q.out, c)
			}
		}
		q.err = err
	}
	n := copy(p, q.out)
	q.out = q.out[n:]
	return n, nil
}

// readRecord reads one record and undoes quotedCRReader's escaping.
func readRecord(cr *csv.Reader) ([]string, error) {
	rec, err := cr.Read()
	if err != nil {
		return rec, err
	}
	for i, f := range rec {
		rec[i] = unescapeCR(f)
	}
	return rec, nil
}

func unescapeCR(s string) string {
	if strings.IndexByte(s, crEscape) < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == crEscape && i+1 < len(s) {
			i++
			if s[i] == 'r' {
				b.WriteByte('\r')
			} else {
				b.WriteByte(s[i])
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
