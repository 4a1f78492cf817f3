package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewWritesAtLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "warn")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	l.Info("hidden")
	l.Warn("shown", "url", "https://host/avatar.png")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line written at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "avatar.png") {
		t.Errorf("expected warn line with url, got %q", out)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	if _, err := New(nil, "loud"); err == nil {
		t.Error("expected error for unknown level")
	}
	if ValidLevel("loud") {
		t.Error("ValidLevel(loud) = true")
	}
	if !ValidLevel("debug") {
		t.Error("ValidLevel(debug) = false")
	}
}
