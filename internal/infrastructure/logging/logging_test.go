package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("warn", "json", &buf)
	if err != nil {
		t.Fatalf("New() err = %v", err)
	}
	l.Info("hidden")
	l.WithField("retry_in", "3s").Warn("fetching seats failed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatal(err)
	}
	if entry["msg"] != "fetching seats failed" || entry["retry_in"] != "3s" || entry["time"] == nil {
		t.Errorf("entry = %v", entry)
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	if _, err := New("loud", "text", nil); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := New("info", "xml", nil); err == nil {
		t.Error("expected error for unknown format")
	}
}
