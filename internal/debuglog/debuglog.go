// Package debuglog provides the opt-in debug logger. Nothing is ever logged
// to the terminal: the TUI owns it.
package debuglog

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// EnvPath names the env var holding the debug log path.
const EnvPath = "POMO_DEBUG_LOG"

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Open returns a debug-level text logger appending to path. An empty path
// yields a discard logger. The returned close func is always non-nil.
func Open(path string) (*slog.Logger, func() error, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Discard(), func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Discard(), func() error { return nil }, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return Discard(), func() error { return nil }, err
	}
	l := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return l.With("pid", os.Getpid()), f.Close, nil
}
