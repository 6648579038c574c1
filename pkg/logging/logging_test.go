package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Debug("hidden")
	logger.Info("mesh attempt failed", zap.String("strategy", "console"), zap.Int("exit_code", 1))
	logger.Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line (debug filtered), got %d: %q", len(lines), buf.String())
	}

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if entry["msg"] != "mesh attempt failed" || entry["strategy"] != "console" || entry["exit_code"] != float64(1) {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "debug", Format: "console"}, &buf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("running command", zap.String("executable", "freecad"))

	if !strings.Contains(buf.String(), "running command") || !strings.Contains(buf.String(), "freecad") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestNew_Invalid(t *testing.T) {
	if _, err := New(Config{Level: "loud"}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for bad level")
	}
	if _, err := New(Config{Level: "info", Format: "xml"}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for bad format")
	}
}
