package app

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func newBufferLogger(level LogLevel) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := NewLogger(LoggerConfig{Level: level, Output: &buf, Prefix: "drawboard"})
	l.sink.now = func() time.Time {
		return time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	}
	return l, &buf
}

func TestLoggerFormat(t *testing.T) {
	l, buf := newBufferLogger(LogLevelInfo)

	l.WithComponent("board").WithField("id", 7).Info("painted %d cells", 3)

	want := "2026-10-18T09:30:00.000 [INFO] drawboard: painted 3 cells {component=board, id=7}\n"
	if buf.String() != want {
		t.Errorf("log line = %q, want %q", buf.String(), want)
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	l, buf := newBufferLogger(LogLevelWarn)

	l.Debug("debug")
	l.Info("info")
	l.Warn("warn")
	l.Error("error")

	out := buf.String()
	if strings.Contains(out, "debug") || strings.Contains(out, "info") {
		t.Errorf("below-level messages written: %q", out)
	}
	if !strings.Contains(out, "[WARN]") || !strings.Contains(out, "[ERROR]") {
		t.Errorf("missing warn/error lines: %q", out)
	}
}

func TestLoggerSetLevelReachesDerived(t *testing.T) {
	l, buf := newBufferLogger(LogLevelInfo)
	child := l.WithComponent("config")

	child.Debug("hidden")
	l.SetLevel(LogLevelDebug)
	child.Debug("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("debug line written before SetLevel")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("derived logger did not pick up the new level")
	}
	if child.Level() != LogLevelDebug {
		t.Errorf("child.Level() = %v, want DEBUG", child.Level())
	}
}

func TestLoggerDisable(t *testing.T) {
	l, buf := newBufferLogger(LogLevelDebug)

	l.Disable()
	l.Error("dropped")
	if buf.Len() != 0 {
		t.Errorf("disabled logger wrote %q", buf.String())
	}

	l.Enable()
	l.Error("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Error("re-enabled logger wrote nothing")
	}
}

func TestNullLogger(t *testing.T) {
	NullLogger.Error("nothing %d", 1)
	NullLogger.WithComponent("x").Info("nothing")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LogLevelDebug},
		{"DEBUG", LogLevelDebug},
		{"info", LogLevelInfo},
		{"warn", LogLevelWarn},
		{"warning", LogLevelWarn},
		{"error", LogLevelError},
		{"bogus", LogLevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
