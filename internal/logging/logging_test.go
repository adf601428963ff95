package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewFormats(t *testing.T) {
	for _, format := range []string{"", "console", "json"} {
		log, err := New(format, false)
		if err != nil {
			t.Fatalf("New(%q): %v", format, err)
		}
		if log.Core().Enabled(zapcore.DebugLevel) {
			t.Errorf("New(%q): debug enabled without debug flag", format)
		}
		if !log.Core().Enabled(zapcore.InfoLevel) {
			t.Errorf("New(%q): info disabled", format)
		}
	}
}

func TestNewDebug(t *testing.T) {
	log, err := New("json", true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug level not enabled")
	}
}

func TestNewUnknownFormat(t *testing.T) {
	if _, err := New("xml", false); err == nil {
		t.Error("expected error for unknown format")
	}
}
