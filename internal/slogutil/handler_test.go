package slogutil

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)

	logger.Info("component generated", "component", "wcc-button", "targets", 2)

	got := buf.String()
	if !strings.Contains(got, "[info] component generated") {
		t.Errorf("log line missing level and message: %q", got)
	}
	if !strings.Contains(got, "| component=wcc-button targets=2") {
		t.Errorf("log line missing attrs: %q", got)
	}
	if !strings.HasSuffix(got, "\n") {
		t.Errorf("log line missing trailing newline: %q", got)
	}
}

func TestHandlerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelWarn)

	logger.Debug("dropped")
	logger.Info("dropped too")
	logger.Warn("kept")

	got := buf.String()
	if strings.Contains(got, "dropped") {
		t.Errorf("sub-threshold records were written: %q", got)
	}
	if !strings.Contains(got, "[warn] kept") {
		t.Errorf("warn record missing: %q", got)
	}
}

func TestHandlerWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo).With("run", "abc")

	logger.Info("step done", "n", 1)

	got := buf.String()
	if !strings.Contains(got, "run=abc") || !strings.Contains(got, "n=1") {
		t.Errorf("inherited and record attrs not both present: %q", got)
	}
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := LevelFromString(tt.in); got != tt.want {
			t.Errorf("LevelFromString(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDiscardLogger(t *testing.T) {
	logger := NewDiscardLogger()
	logger.Error("this must not panic")
}
