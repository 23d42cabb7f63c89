package logbook_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kingrea/wayfinder/internal/logbook"
)

func TestAppendAndTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "wayfinder.log")
	stamp := time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC)
	book, err := logbook.New(path, logbook.WithClock(func() time.Time { return stamp }))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	book.Info("route %q -> %s", "fix build", "backend")
	book.Warn("metrics store unavailable")
	book.Error("something broke")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	for _, needle := range []string{"INFO", "WARN", "ERROR", "backend", stamp.Format(time.RFC3339)} {
		if !strings.Contains(content, needle) {
			t.Fatalf("log missing %q:\n%s", needle, content)
		}
	}

	tail := book.Tail(2)
	if len(tail) != 2 {
		t.Fatalf("Tail(2) returned %d lines", len(tail))
	}
	if !strings.Contains(tail[1], "something broke") {
		t.Fatalf("unexpected tail order: %v", tail)
	}
}

func TestTailOnMissingFile(t *testing.T) {
	book, err := logbook.New(filepath.Join(t.TempDir(), "none.log"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if lines := book.Tail(5); lines != nil {
		t.Fatalf("expected nil tail for missing file, got %v", lines)
	}
}

func TestNilLogbookIsSafe(t *testing.T) {
	var book *logbook.Logbook
	book.Info("no crash")
	if book.Path() != "" {
		t.Fatalf("nil logbook should have empty path")
	}
}
