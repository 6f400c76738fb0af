package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestConfig_GetSet(t *testing.T) {
	cfg := &GlobalConfig{}

	if err := cfg.Set("tui.glyphs", "ASCII"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, _ := cfg.Get("tui.glyphs"); v != "ascii" {
		t.Fatalf("expected ascii; got %q", v)
	}
	if err := cfg.Set("tui.theme", "purple"); err == nil {
		t.Fatalf("expected invalid value error")
	}
	if _, err := cfg.Get("nope"); !errors.Is(err, ErrUnknownConfigKey) {
		t.Fatalf("expected ErrUnknownConfigKey; got %v", err)
	}
	if err := cfg.Set("tui.glyphs", ""); err != nil {
		t.Fatalf("Set clear: %v", err)
	}
	if cfg.TUI != nil {
		t.Fatalf("expected empty tui config to be dropped; got %#v", cfg.TUI)
	}
}

func TestSaveConfig_RoundTripAndBackup(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("POMO_CONFIG_DIR", dir)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig (missing): %v", err)
	}
	cfg.DefaultFile = "/tmp/a.md"
	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	cfg.DefaultFile = "/tmp/b.md"
	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	got, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.DefaultFile != "/tmp/b.md" {
		t.Fatalf("expected /tmp/b.md; got %q", got.DefaultFile)
	}
	bak, err := os.ReadFile(filepath.Join(dir, "config.json.bak"))
	if err != nil {
		t.Fatalf("expected backup: %v", err)
	}
	if !strings.Contains(string(bak), "/tmp/a.md") {
		t.Fatalf("expected backup to hold the previous config; got %s", bak)
	}
}

func TestSaveConfig_ConcurrentWriters_DoesNotCorruptConfig(t *testing.T) {
	t.Setenv("POMO_CONFIG_DIR", t.TempDir())

	const n = 16
	errCh := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := SaveConfig(&GlobalConfig{DefaultFile: fmt.Sprintf("/tmp/%d.md", i)}); err != nil {
				errCh <- err
			}
		}(i)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Errorf("concurrent SaveConfig: %v", err)
	}
	if _, err := LoadConfig(); err != nil {
		t.Fatalf("expected a valid config after concurrent writes; got %v", err)
	}
}

func TestDefaultTaskFilePath_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("POMO_CONFIG_DIR", t.TempDir())
	t.Setenv("POMO_CACHE_DIR", dir)
	got, err := DefaultTaskFilePath()
	if err != nil {
		t.Fatalf("DefaultTaskFilePath: %v", err)
	}
	if got != filepath.Join(dir, "tasks.md") {
		t.Fatalf("unexpected path %q", got)
	}
}

func TestDefaultTaskFilePath_ConfiguredFileWins(t *testing.T) {
	t.Setenv("POMO_CONFIG_DIR", t.TempDir())
	t.Setenv("POMO_CACHE_DIR", t.TempDir())
	if err := SaveConfig(&GlobalConfig{DefaultFile: "/tmp/mine.md"}); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	got, err := DefaultTaskFilePath()
	if err != nil {
		t.Fatalf("DefaultTaskFilePath: %v", err)
	}
	if got != "/tmp/mine.md" {
		t.Fatalf("expected configured file; got %q", got)
	}
}
