package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pomo-cli/internal/model"
	"pomo-cli/internal/session"
	"pomo-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func keyRunes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func keyType(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func press(t *testing.T, m appModel, msgs ...tea.Msg) appModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		am, ok := next.(appModel)
		if !ok {
			t.Fatalf("expected appModel from Update; got %T", next)
		}
		m = am
	}
	return m
}

func loadFile(t *testing.T, content string) (*session.Session, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := session.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s, path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(b)
}

func TestApp_AddCycleToggle(t *testing.T) {
	s := session.New()
	m := newAppModel(s, nil)

	m = press(t, m, keyRunes("a"))
	if m.modal != modalAdd || m.addTo != model.SectionBacklog {
		t.Fatalf("expected add modal for backlog; got modal=%v addTo=%v", m.modal, m.addTo)
	}
	m = press(t, m, keyRunes("Buy milk"), keyType(tea.KeyEnter))
	if m.modal != modalNone {
		t.Fatalf("expected modal to close after add")
	}
	if got := s.Document().Backlog; len(got) != 1 || got[0] != "Buy milk" {
		t.Fatalf("expected backlog [Buy milk]; got %v", got)
	}

	m = press(t, m, keyType(tea.KeySpace))
	if got := s.Document().Active; len(got) != 1 || got[0] != "Buy milk" {
		t.Fatalf("expected space to activate the task; got active=%v", got)
	}
	if !strings.Contains(m.viewHeader(), "Buy milk") {
		t.Fatalf("expected header to show the active task; got %q", m.viewHeader())
	}

	m = press(t, m, keyType(tea.KeyTab))
	if m.focus != model.SectionActive {
		t.Fatalf("expected focus on active; got %v", m.focus)
	}
	m = press(t, m, keyRunes("x"))
	if got := s.Document().Completed; len(got) != 1 || got[0] != "Buy milk" {
		t.Fatalf("expected x to complete the task; got completed=%v", got)
	}
	if !strings.Contains(m.View(), "Completed (1)") {
		t.Fatalf("expected view to count the completed task")
	}
}

func TestApp_AddEmptyKeepsDialog(t *testing.T) {
	s := session.New()
	m := press(t, newAppModel(s, nil), keyRunes("A"), keyRunes("   "), keyType(tea.KeyEnter))
	if m.modal != modalAdd || !m.flashErr {
		t.Fatalf("expected add dialog to stay open with an error; got modal=%v flash=%q", m.modal, m.flash)
	}
	m = press(t, m, keyType(tea.KeyEsc))
	if m.modal != modalNone || !s.Document().IsEmpty() {
		t.Fatalf("expected esc to close the dialog without changes")
	}
}

func TestApp_ReorderAndDelete(t *testing.T) {
	s, path := loadFile(t, "- [ ] A\n- [ ] B\n- [ ] C\n")
	m := newAppModel(s, nil)

	m = press(t, m, keyRunes("J"))
	if got := strings.Join(s.Document().Backlog, ","); got != "B,A,C" {
		t.Fatalf("expected B,A,C after move down; got %s", got)
	}
	if m.cursor() != 1 {
		t.Fatalf("expected cursor to follow the task; got %d", m.cursor())
	}

	m = press(t, m, keyRunes("d"))
	if m.modal != modalConfirmDelete {
		t.Fatalf("expected delete confirmation")
	}
	m = press(t, m, keyType(tea.KeyEnter))
	if len(s.Document().Backlog) != 3 {
		t.Fatalf("expected enter on Cancel to keep the task")
	}

	m = press(t, m, keyRunes("d"), keyRunes("y"))
	if got := strings.Join(s.Document().Backlog, ","); got != "B,C" {
		t.Fatalf("expected A deleted; got %s", got)
	}
	// Edits stay in memory until a sync.
	if readFile(t, path) != "- [ ] A\n- [ ] B\n- [ ] C\n" {
		t.Fatalf("expected file untouched before sync")
	}
}

func TestApp_SyncDisabledWithoutFile(t *testing.T) {
	m := press(t, newAppModel(session.New(), nil), keyRunes("s"))
	if m.modal != modalNone || !strings.Contains(m.flash, "sync disabled") {
		t.Fatalf("expected sync disabled flash; got modal=%v flash=%q", m.modal, m.flash)
	}
}

func TestApp_SyncInSync(t *testing.T) {
	s, _ := loadFile(t, "- [ ] A\n")
	m := press(t, newAppModel(s, nil), keyRunes("s"))
	if m.modal != modalNone || !strings.Contains(m.flash, "in sync") {
		t.Fatalf("expected in-sync flash; got modal=%v flash=%q", m.modal, m.flash)
	}
}

func TestApp_SyncWritesReorder(t *testing.T) {
	s, path := loadFile(t, "# Inbox\n- [ ] A\n- [ ] B\n")
	m := newAppModel(s, nil)
	m = press(t, m, keyRunes("J"))
	if got := strings.Join(s.Document().Backlog, ","); got != "B,A" {
		t.Fatalf("expected B,A after move down; got %s", got)
	}

	m = press(t, m, keyRunes("s"))
	if m.modal != modalNone || !strings.Contains(m.flash, "wrote task order") {
		t.Fatalf("expected order written without a dialog; got modal=%v flash=%q", m.modal, m.flash)
	}
	if want := "# Inbox\n- [ ] B\n- [ ] A\n"; readFile(t, path) != want {
		t.Fatalf("expected file %q; got %q", want, readFile(t, path))
	}

	m = press(t, m, keyRunes("s"))
	if !strings.Contains(m.flash, "in sync") {
		t.Fatalf("expected in-sync flash; got %q", m.flash)
	}
}

func TestApp_SyncWriteToFile(t *testing.T) {
	s, path := loadFile(t, "# Inbox\n- [ ] B\n- [ ] C\n")
	m := newAppModel(s, nil)
	m = press(t, m, keyRunes("a"), keyRunes("A"), keyType(tea.KeyEnter))

	m = press(t, m, keyRunes("s"))
	if m.modal != modalSync {
		t.Fatalf("expected sync dialog")
	}
	if !s.Syncing() {
		t.Fatalf("expected session to be locked while presenting")
	}
	if !strings.Contains(m.View(), "only in memory") {
		t.Fatalf("expected divergence in the dialog; got:\n%s", m.View())
	}

	m = press(t, m, keyRunes("w"))
	if m.modal != modalNone || s.Syncing() {
		t.Fatalf("expected dialog closed and session unlocked")
	}
	if want := "# Inbox\n- [ ] B\n- [ ] C\n- [ ] A\n"; readFile(t, path) != want {
		t.Fatalf("expected file %q; got %q", want, readFile(t, path))
	}
}

func TestApp_SyncReadFromFile(t *testing.T) {
	s, path := loadFile(t, "- [ ] B\n")
	m := newAppModel(s, nil)
	m = press(t, m, keyType(tea.KeySpace))

	// Edited outside the app.
	if err := os.WriteFile(path, []byte("- [ ] B\n- [ ] C\n- [x] D\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	m = press(t, m, keyRunes("s"), keyRunes("r"))
	if m.modal != modalNone {
		t.Fatalf("expected dialog closed")
	}
	doc := s.Document()
	if strings.Join(doc.Backlog, ",") != "C" || strings.Join(doc.Active, ",") != "B" || strings.Join(doc.Completed, ",") != "D" {
		t.Fatalf("unexpected document after read: %#v", doc)
	}
}

func TestApp_SyncPerItem(t *testing.T) {
	s, path := loadFile(t, "- [ ] B\n")
	m := newAppModel(s, nil)
	m = press(t, m, keyRunes("a"), keyRunes("A"), keyType(tea.KeyEnter))
	if err := os.WriteFile(path, []byte("- [ ] B\n- [ ] C\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m = press(t, m, keyRunes("s"))
	if m.modal != modalSync {
		t.Fatalf("expected sync dialog")
	}
	// A (memory) -> keep memory; C (file) -> keep file.
	m = press(t, m, keyRunes("m"), keyRunes("f"), keyType(tea.KeyEnter))
	if m.modal != modalNone {
		t.Fatalf("expected dialog closed; flash=%q", m.flash)
	}
	if got := strings.Join(s.Document().Backlog, ","); got != "B,A,C" {
		t.Fatalf("expected B,A,C; got %s", got)
	}
	if want := "- [ ] B\n- [ ] A\n- [ ] C\n"; readFile(t, path) != want {
		t.Fatalf("expected file %q; got %q", want, readFile(t, path))
	}
}

func TestApp_SyncCancelUnlocks(t *testing.T) {
	s, path := loadFile(t, "- [ ] B\n")
	m := newAppModel(s, nil)
	m = press(t, m, keyRunes("a"), keyRunes("A"), keyType(tea.KeyEnter), keyRunes("s"))

	// Main-view keys are routed to the dialog while presenting.
	m = press(t, m, keyRunes("a"))
	if m.modal != modalSync {
		t.Fatalf("expected the sync dialog to keep focus")
	}
	m = press(t, m, keyType(tea.KeyEsc))
	if m.modal != modalNone || s.Syncing() {
		t.Fatalf("expected cancel to close the dialog and unlock")
	}
	if readFile(t, path) != "- [ ] B\n" || len(s.Document().Backlog) != 2 {
		t.Fatalf("expected cancel to leave both sides untouched")
	}
	m = press(t, m, keyRunes("a"))
	if m.modal != modalAdd {
		t.Fatalf("expected edits to be accepted after cancel")
	}
}

func TestApp_InitCreatesDefaultFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("POMO_CONFIG_DIR", filepath.Join(dir, "config"))
	t.Setenv("POMO_CACHE_DIR", filepath.Join(dir, "cache"))

	s := session.New()
	m := press(t, newAppModel(s, nil), keyRunes("I"))
	if !s.HasFile() || s.Path() != filepath.Join(dir, "cache", "tasks.md") {
		t.Fatalf("expected default file attached; got %q", s.Path())
	}
	m = press(t, m, keyRunes("s"))
	if !strings.Contains(m.flash, "in sync") {
		t.Fatalf("expected sync to work after init; got %q", m.flash)
	}
}

func TestApp_UIStateRoundTrip(t *testing.T) {
	s, _ := loadFile(t, "- [ ] A\n- [ ] B\n")
	states := store.UIStateStore{Dir: t.TempDir()}

	m := newAppModel(s, nil)
	m.states = &states
	m = press(t, m, keyRunes("j"), keyRunes("p"), keyRunes("q"))

	m2 := newAppModel(s, nil)
	m2.states = &states
	m2.loadState()
	if !m2.showPreview || m2.cursor() != 1 || m2.focus != model.SectionBacklog {
		t.Fatalf("expected restored state; got preview=%v cursor=%d focus=%v", m2.showPreview, m2.cursor(), m2.focus)
	}
	if !strings.Contains(m2.previewMarkdown(), "- [ ] B") {
		t.Fatalf("expected preview of the checklist; got %q", m2.previewMarkdown())
	}
}

func TestApp_FlashClears(t *testing.T) {
	m := press(t, newAppModel(session.New(), nil), keyRunes("c"))
	if m.flash != "no active task" {
		t.Fatalf("expected flash; got %q", m.flash)
	}
	stale := flashDoneMsg{seq: m.flashSeq - 1}
	m = press(t, m, stale)
	if m.flash == "" {
		t.Fatalf("expected stale flash timer to be ignored")
	}
	m = press(t, m, flashDoneMsg{seq: m.flashSeq})
	if m.flash != "" {
		t.Fatalf("expected flash cleared")
	}
}
