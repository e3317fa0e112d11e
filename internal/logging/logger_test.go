package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cardpress/internal/logging"
	"cardpress/internal/services"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewWritesToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "cardpress.log")

	logger, err := logging.New(logging.Options{Level: "info", Format: "console", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("export started", logging.String("mode", "duplex"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "export started") {
		t.Fatalf("missing message in output: %q", out)
	}
	if !strings.Contains(out, "mode=duplex") {
		t.Fatalf("missing attr in output: %q", out)
	}
}

func TestJSONHandlerFieldNames(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cardpress.log")
	logger, err := logging.New(logging.Options{Level: "debug", Format: "json", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("merge complete", logging.Int("pages", 12))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &record); err != nil {
		t.Fatalf("unmarshal record: %v", err)
	}
	if record["msg"] != "merge complete" {
		t.Fatalf("unexpected msg field: %v", record["msg"])
	}
	if record["level"] != "debug" {
		t.Fatalf("unexpected level field: %v", record["level"])
	}
	if _, ok := record["ts"]; !ok {
		t.Fatal("expected ts field")
	}
}

func TestWithContextAddsStandardFields(t *testing.T) {
	ctx := services.WithJobID(context.Background(), 42)
	ctx = services.WithPhase(ctx, "rendering")
	ctx = services.WithRequestID(ctx, "req-1")

	fields := logging.ContextFields(ctx)
	got := map[string]bool{}
	for _, field := range fields {
		got[field.Key] = true
	}
	for _, key := range []string{logging.FieldJobID, logging.FieldPhase, logging.FieldCorrelationID} {
		if !got[key] {
			t.Fatalf("missing field %q in %v", key, fields)
		}
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("noop logger should never be enabled")
	}
}
