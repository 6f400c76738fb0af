package store

import (
	"bytes"
	"os"

	"github.com/natefinch/atomic"
)

// writeFileAtomic replaces path via a temp file + rename in the same directory.
// An existing file keeps its permissions; a new one gets perm.
func writeFileAtomic(path string, b []byte, perm os.FileMode) error {
	mode := perm
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := atomic.WriteFile(path, bytes.NewReader(b)); err != nil {
		return err
	}
	return os.Chmod(path, mode)
}
