package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/goliatone/go-formbind/internal/config"
)

func TestNew_JSONHandlerHonoursLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := New(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Info("dropped")
	logger.Warn("kept", slog.String("endpoint", "GET /x"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one record, got %q", buf.String())
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if record["msg"] != "kept" || record["endpoint"] != "GET /x" || record["level"] != "WARN" {
		t.Fatalf("unexpected record %v", record)
	}
}

func TestNew_TextDefault(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := New(config.LogConfig{}, &buf)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("setup complete.")
	if got := buf.String(); !strings.Contains(got, `msg="setup complete."`) || strings.Contains(got, "hidden") {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	if _, err := New(config.LogConfig{Format: "xml"}, nil); err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if _, err := New(config.LogConfig{Level: "loud"}, nil); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
