package app

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestFlistHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(&flistHandler{w: &buf, runID: "run-1"})

	logger.Info("scan finished", "files", 42, "dirs", 7)

	line := strings.TrimSuffix(buf.String(), "\n")
	fields := strings.Split(line, "\t")
	if len(fields) != 6 {
		t.Fatalf("log line has %d fields, want 6: %q", len(fields), line)
	}
	if fields[1] != "INFO" {
		t.Errorf("level field = %s, want INFO", fields[1])
	}
	if fields[2] != "run-1" {
		t.Errorf("run id field = %s, want run-1", fields[2])
	}
	if fields[3] != "scan finished" {
		t.Errorf("message field = %s, want scan finished", fields[3])
	}
	if fields[4] != "files=42" || fields[5] != "dirs=7" {
		t.Errorf("attr fields = %v, want files=42 dirs=7", fields[4:])
	}

	// Timestamp is UTC with a trailing Z.
	if !strings.HasSuffix(fields[0], "Z") {
		t.Errorf("timestamp = %s, want UTC format ending in Z", fields[0])
	}
}

func TestFlistHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(&flistHandler{w: &buf, runID: "run-1"})
	logger := base.With("scandir", "/data")

	logger.Warn("cannot read directory", "path", "/data/bad")

	line := buf.String()
	if !strings.Contains(line, "\tscandir=/data\t") {
		t.Errorf("log line missing pre-set attr: %q", line)
	}
	if !strings.Contains(line, "\tpath=/data/bad") {
		t.Errorf("log line missing per-record attr: %q", line)
	}
	if !strings.Contains(line, "\tWARN\t") {
		t.Errorf("log line missing level: %q", line)
	}
}
