package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/samirrijal/antipodes/internal/pkg/logging"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"info":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range tests {
		if got := logging.ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSetup_JSON(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	logging.Setup("warn", "json", &buf)

	slog.Info("dropped")
	slog.Warn("kept", "map", "mirror")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("expected json output: %v", err)
	}
	if rec["msg"] != "kept" || rec["map"] != "mirror" {
		t.Errorf("unexpected record %v", rec)
	}
}

func TestSetup_Text(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	logging.Setup("debug", "text", &buf)
	slog.Debug("fit", "zoom", 4)

	if out := buf.String(); !strings.Contains(out, "msg=fit") || !strings.Contains(out, "zoom=4") {
		t.Errorf("unexpected text output %q", out)
	}
}
