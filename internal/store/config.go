package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var ErrUnknownConfigKey = errors.New("unknown config key")

type GlobalConfig struct {
	// DefaultFile overrides where `pomo init` creates the task file.
	DefaultFile string `json:"defaultFile,omitempty"`

	// TUI holds optional user preferences for the interactive TUI.
	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Glyphs selects the glyph set ("unicode" or "ascii").
	Glyphs string `json:"glyphs,omitempty"`
	// Theme forces the background detection ("auto", "light", "dark").
	Theme string `json:"theme,omitempty"`
	// MarkdownStyle selects the glamour style for the file preview ("dark", "light", "notty").
	MarkdownStyle string `json:"markdownStyle,omitempty"`
}

type configKey struct {
	allowed []string
	get     func(*GlobalConfig) string
	set     func(*GlobalConfig, string)
}

func tuiConfig(c *GlobalConfig) *TUIConfig {
	if c.TUI == nil {
		c.TUI = &TUIConfig{}
	}
	return c.TUI
}

var configKeys = map[string]configKey{
	"defaultFile": {
		get: func(c *GlobalConfig) string { return c.DefaultFile },
		set: func(c *GlobalConfig, v string) { c.DefaultFile = v },
	},
	"tui.glyphs": {
		allowed: []string{"unicode", "ascii"},
		get:     func(c *GlobalConfig) string { return tuiConfig(c).Glyphs },
		set:     func(c *GlobalConfig, v string) { tuiConfig(c).Glyphs = v },
	},
	"tui.theme": {
		allowed: []string{"auto", "light", "dark"},
		get:     func(c *GlobalConfig) string { return tuiConfig(c).Theme },
		set:     func(c *GlobalConfig, v string) { tuiConfig(c).Theme = v },
	},
	"tui.markdownStyle": {
		allowed: []string{"dark", "light", "notty"},
		get:     func(c *GlobalConfig) string { return tuiConfig(c).MarkdownStyle },
		set:     func(c *GlobalConfig, v string) { tuiConfig(c).MarkdownStyle = v },
	},
}

// ConfigKeys lists the supported keys for `pomo config`.
func ConfigKeys() []string {
	out := make([]string, 0, len(configKeys))
	for k := range configKeys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (c *GlobalConfig) Get(key string) (string, error) {
	k, ok := configKeys[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
	}
	return k.get(c), nil
}

// Set validates and stores value under key. An empty value clears the key.
func (c *GlobalConfig) Set(key, value string) error {
	k, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
	}
	value = strings.TrimSpace(value)
	if value != "" && len(k.allowed) > 0 {
		v := strings.ToLower(value)
		valid := false
		for _, a := range k.allowed {
			if a == v {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid value for %s: %q (expected %s)", key, value, strings.Join(k.allowed, "|"))
		}
		value = v
	}
	k.set(c, value)
	if c.TUI != nil && *c.TUI == (TUIConfig{}) {
		c.TUI = nil
	}
	return nil
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching the user's config).
	if v := strings.TrimSpace(os.Getenv("POMO_CONFIG_DIR")); v != "" {
		return v, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pomo"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func SaveConfig(cfg *GlobalConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	// Best-effort: keep a copy of the previous config for recovery.
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = writeFileAtomic(path+".bak", prev, 0o644)
	}
	return writeFileAtomic(path, b, 0o600)
}

// DefaultTaskFilePath is where `pomo init` creates the task file: the
// configured defaultFile, else tasks.md in the cache dir (~/.cache/pomo on Linux).
func DefaultTaskFilePath() (string, error) {
	if cfg, err := LoadConfig(); err == nil && strings.TrimSpace(cfg.DefaultFile) != "" {
		return cfg.DefaultFile, nil
	}
	if v := strings.TrimSpace(os.Getenv("POMO_CACHE_DIR")); v != "" {
		return filepath.Join(v, "tasks.md"), nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pomo", "tasks.md"), nil
}
