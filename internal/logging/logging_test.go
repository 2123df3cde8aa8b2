package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"WARNING", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(LevelWarn, &buf)

	l.Debug("hidden %d", 1)
	l.Info("hidden %d", 2)
	l.Warn("shown %d", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("below-level records written: %q", out)
	}
	if !strings.Contains(out, "shown 3") {
		t.Errorf("warn record missing: %q", out)
	}

	l.SetLevel(LevelDebug)
	l.Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Error("SetLevel should enable debug records")
	}
}

func TestLogger_WithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(LevelInfo, &buf).With("density")

	l.Info("fill")

	if !strings.Contains(buf.String(), "component=density") {
		t.Errorf("component attr missing: %q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	// Must not panic and must not format.
	l.Error("x %v", struct{}{})
	l.With("sub").Debug("y")
}
