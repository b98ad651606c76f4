package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConsoleHandlerFormatsAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Console: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("roll advanced", slog.Int64("roll_id", 7), slog.String("status", "shooting"))

	line := buf.String()
	if !strings.Contains(line, "INFO roll advanced") {
		t.Fatalf("unexpected line %q", line)
	}
	if !strings.Contains(line, "roll_id=7") || !strings.Contains(line, "status=shooting") {
		t.Fatalf("missing attrs in %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Console: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Warn("low stock", slog.String("stock", "Portra 400"))

	if !strings.Contains(buf.String(), `stock="Portra 400"`) {
		t.Fatalf("expected quoted value, got %q", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Console: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("hidden")
	logger.Error("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("error line missing: %q", out)
	}
}

func TestGroupedAttrsFlatten(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Console: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.WithGroup("dev").Info("saved", slog.String("process", "C-41"))

	if !strings.Contains(buf.String(), "dev.process=C-41") {
		t.Fatalf("expected flattened group key, got %q", buf.String())
	}
}

func TestFileMirroring(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "filmlog.log")
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Console: &buf, FilePath: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("mirrored")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "mirrored") {
		t.Fatalf("log file missing entry: %q", string(data))
	}
}

func TestUnsupportedFormatRejected(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
