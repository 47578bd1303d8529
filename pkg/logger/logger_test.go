package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/vaultscribe/backend/pkg/logger"
)

func TestNew_TextFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: slog.LevelInfo, Output: &buf})
	log.Info("hello", slog.String("k", "v"))

	out := buf.String()
	if !strings.Contains(out, "msg=hello") || !strings.Contains(out, "k=v") {
		t.Errorf("text output missing fields: %q", out)
	}
}

func TestNew_JSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: slog.LevelInfo, Output: &buf, JSONFormat: true})
	log.Info("hello", slog.String("k", "v"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if record["msg"] != "hello" || record["k"] != "v" {
		t.Errorf("JSON record missing fields: %v", record)
	}
}

func TestNew_LevelFilter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: slog.LevelWarn, Output: &buf})
	log.Debug("dropped")
	log.Info("dropped too")

	if buf.Len() != 0 {
		t.Errorf("records below the configured level were emitted: %q", buf.String())
	}
}
