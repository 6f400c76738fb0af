// Package tui is the interactive task board: three section lists over a
// session, with an explicit sync dialog for the checklist file.
package tui

import (
	"log/slog"

	"pomo-cli/internal/session"
	"pomo-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	Logger *slog.Logger
	// LoadErr is shown on start when the file given on the command line could not be read.
	LoadErr error
}

func Run(s *session.Session, opts Options) error {
	m := newConfiguredModel(s, opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// newConfiguredModel applies config and env preferences, then restores the
// saved UI state for the open file.
func newConfiguredModel(s *session.Session, opts Options) appModel {
	cfg, err := store.LoadConfig()
	if err != nil || cfg == nil {
		cfg = &store.GlobalConfig{}
	}
	tuiCfg := store.TUIConfig{}
	if cfg.TUI != nil {
		tuiCfg = *cfg.TUI
	}

	applyColorProfilePreference()
	applyThemePreference(tuiCfg.Theme)
	applyGlyphPreference(tuiCfg.Glyphs)

	m := newAppModel(s, opts.Logger)
	m.mdStyle = tuiCfg.MarkdownStyle
	if st, err := store.DefaultUIStateStore(); err == nil {
		m.states = &st
	}
	m.loadState()
	if opts.LoadErr != nil {
		// Init schedules the clear.
		_ = m.setFlash(opts.LoadErr.Error()+" (sync disabled)", true)
	}
	return m
}
