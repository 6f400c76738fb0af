package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"pomo-cli/internal/checklist"
)

var (
	ErrFileUnreadable = errors.New("file unreadable")
	ErrFileUnwritable = errors.New("file unwritable")
)

// FileError is returned by checklist reads and writes. It matches both its
// kind (ErrFileUnreadable or ErrFileUnwritable) and the underlying cause.
type FileError struct {
	Op   string
	Path string
	Kind error
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() []error { return []error{e.Kind, e.Err} }

var errInvalidUTF8 = errors.New("not valid UTF-8 text")

// ChecklistFile is a Markdown checklist on disk.
type ChecklistFile struct {
	Path string
}

func (f ChecklistFile) Location() string { return f.Path }

// ReadText returns the raw file contents.
func (f ChecklistFile) ReadText() (string, error) {
	path := filepath.Clean(f.Path)
	if strings.TrimSpace(f.Path) == "" {
		return "", &FileError{Op: "read", Path: f.Path, Kind: ErrFileUnreadable, Err: errors.New("missing path")}
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", &FileError{Op: "read", Path: path, Kind: ErrFileUnreadable, Err: err}
	}
	if !utf8.Valid(b) {
		return "", &FileError{Op: "read", Path: path, Kind: ErrFileUnreadable, Err: errInvalidUTF8}
	}
	return string(b), nil
}

// Read parses the file into a fresh snapshot.
func (f ChecklistFile) Read() (checklist.Snapshot, error) {
	text, err := f.ReadText()
	if err != nil {
		return checklist.Snapshot{}, err
	}
	return checklist.Parse(text), nil
}

// Write atomically replaces the file contents. On failure the previous
// contents are left in place.
func (f ChecklistFile) Write(content string) error {
	path := filepath.Clean(f.Path)
	if strings.TrimSpace(f.Path) == "" {
		return &FileError{Op: "write", Path: f.Path, Kind: ErrFileUnwritable, Err: errors.New("missing path")}
	}
	if err := writeFileAtomic(path, []byte(content), 0o644); err != nil {
		return &FileError{Op: "write", Path: path, Kind: ErrFileUnwritable, Err: err}
	}
	return nil
}

// Ensure creates an empty file (and its parent directories) if it does not exist yet.
func (f ChecklistFile) Ensure() error {
	path := filepath.Clean(f.Path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &FileError{Op: "create", Path: path, Kind: ErrFileUnwritable, Err: err}
	}
	fh, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &FileError{Op: "create", Path: path, Kind: ErrFileUnwritable, Err: err}
	}
	return fh.Close()
}
