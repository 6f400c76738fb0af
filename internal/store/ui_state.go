package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"pomo-cli/internal/model"
)

const uiStateFileName = "ui_state.sqlite"

// UIState is the small per-checklist TUI state restored on relaunch.
// It is best effort: callers should tolerate missing or invalid data.
type UIState struct {
	Path        string                `json:"path"`
	Section     model.Section         `json:"section"`
	Cursors     map[model.Section]int `json:"cursors,omitempty"`
	ShowPreview bool                  `json:"showPreview,omitempty"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// UIStateStore keeps UIState rows in a SQLite db under Dir.
type UIStateStore struct {
	Dir string
}

// DefaultUIStateStore returns a store rooted at the config dir.
func DefaultUIStateStore() (UIStateStore, error) {
	dir, err := ConfigDir()
	if err != nil {
		return UIStateStore{}, err
	}
	return UIStateStore{Dir: dir}, nil
}

func (s UIStateStore) dbPath() string {
	return filepath.Join(filepath.Clean(s.Dir), uiStateFileName)
}

func stateKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

func (s UIStateStore) open(ctx context.Context) (*sql.DB, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return nil, errors.New("ui state: missing dir")
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.dbPath())
	if err != nil {
		return nil, err
	}
	// WAL + busy_timeout: the CLI and a running TUI may touch the db at the same time.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateUIState(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateUIState(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS ui_state (
			path TEXT PRIMARY KEY,
			section TEXT NOT NULL,
			cursors_json TEXT NOT NULL,
			show_preview INTEGER NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_ui_state_updated ON ui_state(updated_at_unixms);`,
		`INSERT OR IGNORE INTO meta(k, v) VALUES('schema_version', '1');`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// LoadUIState returns the saved state for a checklist path, or a default
// state when none exists.
func (s UIStateStore) LoadUIState(ctx context.Context, path string) (*UIState, error) {
	key := stateKey(path)
	def := &UIState{Path: key, Section: model.SectionBacklog}

	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var (
		section     string
		cursorsJSON string
		preview     int
		updatedMs   int64
	)
	err = db.QueryRowContext(ctx,
		`SELECT section, cursors_json, show_preview, updated_at_unixms FROM ui_state WHERE path = ?`, key,
	).Scan(&section, &cursorsJSON, &preview, &updatedMs)
	if errors.Is(err, sql.ErrNoRows) {
		return def, nil
	}
	if err != nil {
		return nil, err
	}

	st := &UIState{Path: key, Section: model.SectionBacklog, ShowPreview: preview != 0, UpdatedAt: time.UnixMilli(updatedMs).UTC()}
	if sec, ok := model.ParseSection(section); ok {
		st.Section = sec
	}
	// Corrupt cursor json is treated as missing.
	_ = json.Unmarshal([]byte(cursorsJSON), &st.Cursors)
	return st, nil
}

func (s UIStateStore) SaveUIState(ctx context.Context, st *UIState) error {
	if st == nil || strings.TrimSpace(st.Path) == "" {
		return nil
	}
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	cursors, err := json.Marshal(st.Cursors)
	if err != nil {
		return err
	}
	section := st.Section
	if !section.Valid() {
		section = model.SectionBacklog
	}
	now := time.Now().UTC()
	if _, err := db.ExecContext(ctx,
		`INSERT OR REPLACE INTO ui_state(path, section, cursors_json, show_preview, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
		stateKey(st.Path), string(section), string(cursors), boolToInt(st.ShowPreview), now.UnixMilli(),
	); err != nil {
		return err
	}
	st.UpdatedAt = now
	return nil
}

// RecentFiles returns saved states, most recently used first.
func (s UIStateStore) RecentFiles(ctx context.Context, limit int) ([]UIState, error) {
	if limit <= 0 {
		limit = 10
	}
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT path, section, show_preview, updated_at_unixms FROM ui_state ORDER BY updated_at_unixms DESC, path ASC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UIState
	for rows.Next() {
		var (
			st        UIState
			section   string
			preview   int
			updatedMs int64
		)
		if err := rows.Scan(&st.Path, &section, &preview, &updatedMs); err != nil {
			return nil, err
		}
		st.Section, _ = model.ParseSection(section)
		st.ShowPreview = preview != 0
		st.UpdatedAt = time.UnixMilli(updatedMs).UTC()
		out = append(out, st)
	}
	return out, rows.Err()
}

// ForgetFile removes the saved state for path.
func (s UIStateStore) ForgetFile(ctx context.Context, path string) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.ExecContext(ctx, `DELETE FROM ui_state WHERE path = ?`, stateKey(path))
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
