package debuglog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpen_WritesDebugRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "debug.log")
	l, closeFn, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	l.Debug("sync compare", "divergences", 2)
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), "sync compare") || !strings.Contains(string(b), "divergences=2") {
		t.Fatalf("expected debug record; got %q", string(b))
	}
}

func TestOpen_EmptyPathDiscards(t *testing.T) {
	l, closeFn, err := Open("  ")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	l.Info("dropped")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
