package store

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestChecklistFile_ReadWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.md")
	if err := os.WriteFile(path, []byte("# T\n- [ ] a\n- [x] b\n"), 0o600); err != nil {
		t.Fatalf("seed: %v", err)
	}

	f := ChecklistFile{Path: path}
	snap, err := f.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(snap.Backlog) != 1 || len(snap.Completed) != 1 {
		t.Fatalf("unexpected snapshot: %#v", snap)
	}

	if err := f.Write("- [x] a\n"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(b) != "- [x] a\n" {
		t.Fatalf("expected rewritten content; got %q", string(b))
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0o600 {
		t.Fatalf("expected permissions to be kept (0600); got %v", info.Mode().Perm())
	}
}

func TestChecklistFile_ReadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := ChecklistFile{Path: filepath.Join(dir, "missing.md")}.Read()
	if !errors.Is(err, ErrFileUnreadable) || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrFileUnreadable wrapping ErrNotExist; got %v", err)
	}

	bad := filepath.Join(dir, "bad.md")
	if err := os.WriteFile(bad, []byte{'-', ' ', 0xff, 0xfe}, 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	_, err = ChecklistFile{Path: bad}.Read()
	if !errors.Is(err, ErrFileUnreadable) {
		t.Fatalf("expected ErrFileUnreadable for invalid UTF-8; got %v", err)
	}
	var fe *FileError
	if !errors.As(err, &fe) || fe.Op != "read" {
		t.Fatalf("expected *FileError with op read; got %#v", err)
	}
}

func TestChecklistFile_WriteToMissingDirFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone", "tasks.md")
	err := ChecklistFile{Path: path}.Write("- [ ] a\n")
	if !errors.Is(err, ErrFileUnwritable) {
		t.Fatalf("expected ErrFileUnwritable; got %v", err)
	}
	if _, statErr := os.Stat(path); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("expected no file to be created; got %v", statErr)
	}
}

func TestChecklistFile_Ensure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "tasks.md")
	f := ChecklistFile{Path: path}
	if err := f.Ensure(); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if err := os.WriteFile(path, []byte("- [ ] keep\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := f.Ensure(); err != nil {
		t.Fatalf("Ensure (existing): %v", err)
	}
	text, err := f.ReadText()
	if err != nil {
		t.Fatalf("ReadText: %v", err)
	}
	if text != "- [ ] keep\n" {
		t.Fatalf("expected Ensure to keep existing content; got %q", text)
	}
}
