package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"pomo-cli/internal/debuglog"
	"pomo-cli/internal/model"
	"pomo-cli/internal/mutate"
	"pomo-cli/internal/session"
	"pomo-cli/internal/store"
	"pomo-cli/internal/syncflow"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalAdd
	modalConfirmDelete
	modalSync
)

type flashDoneMsg struct{ seq int }

const flashDuration = 2500 * time.Millisecond

type appModel struct {
	sess *session.Session
	log  *slog.Logger

	// states persists per-file UI state; nil disables it.
	states *store.UIStateStore

	width  int
	height int

	focus model.Section
	lists [3]list.Model

	keys     keyMap
	syncKeys syncKeyMap
	help     help.Model
	showHelp bool

	modal        modalKind
	addTo        model.Section
	input        textinput.Model
	confirmFocus confirmModalFocus
	flow         *syncflow.Flow
	syncIdx      int

	showPreview bool
	preview     viewport.Model
	mdStyle     string

	flash    string
	flashErr bool
	flashSeq int
}

func newAppModel(s *session.Session, log *slog.Logger) appModel {
	if log == nil {
		log = debuglog.Discard()
	}
	ti := textinput.New()
	ti.Placeholder = "Task"
	ti.Prompt = glyphArrow() + " "
	ti.CharLimit = 500

	m := appModel{
		sess:     s,
		log:      log,
		focus:    model.SectionBacklog,
		keys:     newKeyMap(),
		syncKeys: newSyncKeyMap(),
		help:     help.New(),
		input:    ti,
		preview:  viewport.New(0, 0),
	}
	for i, sec := range model.Sections {
		m.lists[i] = newSectionList(sec)
	}
	m.width, m.height = 100, 30
	m.refreshLists()
	m.resize()
	return m
}

func (m appModel) Init() tea.Cmd {
	if m.flash == "" {
		return nil
	}
	seq := m.flashSeq
	return tea.Tick(flashDuration, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
			m.flashErr = false
		}
		return m, nil

	case tea.KeyMsg:
		switch m.modal {
		case modalAdd:
			return m.updateAddModal(msg)
		case modalConfirmDelete:
			return m.updateConfirmDelete(msg)
		case modalSync:
			return m.updateSyncModal(msg)
		}
		return m.updateMain(msg)
	}

	if m.showPreview {
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.saveState()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.resize()
		return m, nil

	case key.Matches(msg, m.keys.NextPane):
		m.setFocus(model.Sections[(sectionIndex(m.focus)+1)%len(model.Sections)])
		return m, nil
	case key.Matches(msg, m.keys.PrevPane):
		m.setFocus(model.Sections[(sectionIndex(m.focus)+len(model.Sections)-1)%len(model.Sections)])
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.current().CursorUp()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.current().CursorDown()
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.current().Select(0)
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		if n := len(m.current().Items()); n > 0 {
			m.current().Select(n - 1)
		}
		return m, nil

	case key.Matches(msg, m.keys.Add):
		return m.openAdd(model.SectionBacklog)
	case key.Matches(msg, m.keys.AddActive):
		return m.openAdd(model.SectionActive)

	case key.Matches(msg, m.keys.Cycle):
		return m.applyAtCursor("moved", m.sess.CycleSection)
	case key.Matches(msg, m.keys.Toggle):
		return m.applyAtCursor("toggled", m.sess.ToggleCompletion)
	case key.Matches(msg, m.keys.MoveUp):
		res, err := m.sess.ReorderUp(m.focus, m.cursor())
		return m.afterMutation("", res, err, true)
	case key.Matches(msg, m.keys.MoveDown):
		res, err := m.sess.ReorderDown(m.focus, m.cursor())
		return m.afterMutation("", res, err, true)
	case key.Matches(msg, m.keys.Complete):
		res, err := m.sess.CompleteActive()
		if err == nil && !res.Changed {
			return m, m.setFlash("no active task", false)
		}
		return m.afterMutation("completed", res, err, false)

	case key.Matches(msg, m.keys.Delete):
		if _, ok := m.selectedTask(); !ok {
			return m, nil
		}
		m.modal = modalConfirmDelete
		m.confirmFocus = confirmFocusCancel
		return m, nil

	case key.Matches(msg, m.keys.Sync):
		return m.startSync()

	case key.Matches(msg, m.keys.Init):
		if m.sess.HasFile() {
			return m, m.setFlash("file already open: "+m.sess.Path(), false)
		}
		path, err := m.sess.CreateDefaultFile()
		if err != nil {
			return m, m.setFlash(err.Error(), true)
		}
		m.loadState()
		m.refreshLists()
		return m, m.setFlash("created "+path, false)

	case key.Matches(msg, m.keys.Preview):
		m.showPreview = !m.showPreview
		m.resize()
		return m, nil
	}
	return m, nil
}

func (m *appModel) current() *list.Model { return &m.lists[sectionIndex(m.focus)] }

func (m appModel) cursor() int { return m.lists[sectionIndex(m.focus)].Index() }

func (m appModel) selectedTask() (model.Task, bool) {
	it, ok := m.lists[sectionIndex(m.focus)].SelectedItem().(taskItem)
	if !ok {
		return model.Task{}, false
	}
	return it.task, true
}

func (m *appModel) setFocus(s model.Section) {
	m.focus = s
	for i, sec := range model.Sections {
		m.lists[i].SetDelegate(taskDelegate{focused: sec == s})
	}
}

func (m appModel) applyAtCursor(verb string, fn func(model.Section, int) (mutate.Result, error)) (tea.Model, tea.Cmd) {
	if _, ok := m.selectedTask(); !ok {
		return m, nil
	}
	res, err := fn(m.focus, m.cursor())
	return m.afterMutation(verb, res, err, false)
}

// afterMutation refreshes the lists and reports the result. With follow set
// the cursor tracks the task to its new position.
func (m appModel) afterMutation(verb string, res mutate.Result, err error, follow bool) (tea.Model, tea.Cmd) {
	if err != nil {
		m.log.Debug("mutation failed", "err", err)
		return m, m.setFlash(err.Error(), true)
	}
	m.refreshLists()
	if follow && res.Changed && res.Task.Section == m.focus {
		m.current().Select(res.Task.Position)
	}
	if m.showPreview {
		m.refreshPreview()
	}
	if verb == "" || !res.Changed {
		return m, nil
	}
	return m, m.setFlash(fmt.Sprintf("%s %q %s %s", verb, res.Task.Text, glyphArrow(), res.Task.Section.Title()), false)
}

func (m appModel) openAdd(s model.Section) (tea.Model, tea.Cmd) {
	m.modal = modalAdd
	m.addTo = s
	m.input.SetValue("")
	return m, m.input.Focus()
}

func (m appModel) updateAddModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+g":
		m.modal = modalNone
		m.input.Blur()
		return m, nil
	case "enter":
		res, err := m.sess.Add(m.input.Value(), m.addTo)
		if err != nil {
			// Keep the dialog open so the text can be fixed.
			return m, m.setFlash(err.Error(), true)
		}
		m.modal = modalNone
		m.input.Blur()
		m.setFocus(m.addTo)
		next, cmd := m.afterMutation("added", res, nil, true)
		return next, cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "n", "ctrl+g":
		m.modal = modalNone
		return m, nil
	case "tab", "shift+tab", "left", "right", "h", "l":
		m.confirmFocus = m.confirmFocus.toggle()
		return m, nil
	case "y":
		m.confirmFocus = confirmFocusConfirm
	case "enter":
	default:
		return m, nil
	}
	m.modal = modalNone
	if m.confirmFocus != confirmFocusConfirm {
		return m, nil
	}
	res, err := m.sess.Delete(m.focus, m.cursor())
	return m.afterMutation("deleted", res, err, false)
}

func (m appModel) startSync() (tea.Model, tea.Cmd) {
	flow, err := m.sess.StartSync()
	if errors.Is(err, session.ErrNoFile) {
		return m, m.setFlash("sync disabled: no file (press I to create the default file)", true)
	}
	if err != nil {
		return m, m.setFlash(err.Error(), true)
	}
	if flow.State() != syncflow.Presenting {
		// Same tasks on both sides; only the order can still differ.
		wrote, err := m.sess.SaveOrder()
		if err != nil {
			return m, m.setFlash(err.Error(), true)
		}
		if wrote {
			if m.showPreview {
				m.refreshPreview()
			}
			return m, m.setFlash("wrote task order to "+m.sess.Path(), false)
		}
		return m, m.setFlash("in sync with "+m.sess.Path(), false)
	}
	m.flow = flow
	m.syncIdx = 0
	m.modal = modalSync
	return m, nil
}

func (m appModel) updateSyncModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	divs := m.flow.Divergences()
	switch {
	case key.Matches(msg, m.syncKeys.Cancel):
		m.flow.Cancel()
		return m.closeSync("sync cancelled")
	case key.Matches(msg, m.syncKeys.Up):
		if m.syncIdx > 0 {
			m.syncIdx--
		}
		return m, nil
	case key.Matches(msg, m.syncKeys.Down):
		if m.syncIdx < len(divs)-1 {
			m.syncIdx++
		}
		return m, nil
	case key.Matches(msg, m.syncKeys.KeepMemory), key.Matches(msg, m.syncKeys.KeepFile):
		c := syncflow.KeepMemory
		if key.Matches(msg, m.syncKeys.KeepFile) {
			c = syncflow.KeepFile
		}
		if err := m.flow.Choose(m.syncIdx, c); err != nil {
			return m, m.setFlash(err.Error(), true)
		}
		if m.syncIdx < len(divs)-1 {
			m.syncIdx++
		}
		return m, nil
	case key.Matches(msg, m.syncKeys.Write):
		return m.resolveSync(syncflow.WriteToFile, "wrote "+m.sess.Path())
	case key.Matches(msg, m.syncKeys.Read):
		return m.resolveSync(syncflow.ReadFromFile, "read "+m.sess.Path())
	case key.Matches(msg, m.syncKeys.Apply):
		return m.resolveSync(syncflow.PerItem, "applied choices to "+m.sess.Path())
	}
	return m, nil
}

func (m appModel) resolveSync(r syncflow.Resolution, done string) (tea.Model, tea.Cmd) {
	if err := m.flow.Resolve(r); err != nil {
		// The flow stays in Presenting: retry or cancel. The divergences may
		// have been recomputed.
		if n := len(m.flow.Divergences()); m.syncIdx >= n {
			m.syncIdx = max(0, n-1)
		}
		return m, m.setFlash(err.Error(), true)
	}
	return m.closeSync(done)
}

func (m appModel) closeSync(status string) (tea.Model, tea.Cmd) {
	m.modal = modalNone
	m.flow = nil
	m.syncIdx = 0
	m.refreshLists()
	if m.showPreview {
		m.refreshPreview()
	}
	return m, m.setFlash(status, false)
}

func (m *appModel) setFlash(s string, isErr bool) tea.Cmd {
	m.flashSeq++
	m.flash = s
	m.flashErr = isErr
	seq := m.flashSeq
	return tea.Tick(flashDuration, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}

func (m *appModel) refreshLists() {
	doc := m.sess.Document()
	for i, sec := range model.Sections {
		idx := m.lists[i].Index()
		_ = m.lists[i].SetItems(taskItems(doc, sec))
		n := len(m.lists[i].Items())
		if idx >= n {
			idx = n - 1
		}
		if idx < 0 {
			idx = 0
		}
		m.lists[i].Select(idx)
	}
	m.setFocus(m.focus)
}

func (m *appModel) resize() {
	bodyH := m.height - 4 // header, section titles, footer
	if m.showHelp {
		bodyH -= 4
	}
	if bodyH < 3 {
		bodyH = 3
	}
	listH := bodyH
	if m.showPreview {
		listH = bodyH / 2
		m.preview.Width = m.width
		m.preview.Height = bodyH - listH - 1
	}
	colW := m.width / len(model.Sections)
	if colW < 12 {
		colW = 12
	}
	for i := range m.lists {
		m.lists[i].SetSize(colW-1, listH)
	}
	m.help.Width = m.width
	if m.showPreview {
		m.refreshPreview()
	}
}

// loadState restores the saved focus, cursors and preview toggle for the open file.
func (m *appModel) loadState() {
	if m.states == nil || !m.sess.HasFile() {
		return
	}
	st, err := m.states.LoadUIState(context.Background(), m.sess.Path())
	if err != nil {
		m.log.Debug("ui state load failed", "err", err)
		return
	}
	for i, sec := range model.Sections {
		if c, ok := st.Cursors[sec]; ok && c >= 0 && c < len(m.lists[i].Items()) {
			m.lists[i].Select(c)
		}
	}
	m.focus = st.Section
	m.showPreview = st.ShowPreview
	m.setFocus(m.focus)
	m.resize()
}

func (m appModel) saveState() {
	if m.states == nil || !m.sess.HasFile() {
		return
	}
	st := &store.UIState{
		Path:        m.sess.Path(),
		Section:     m.focus,
		Cursors:     map[model.Section]int{},
		ShowPreview: m.showPreview,
	}
	for i, sec := range model.Sections {
		st.Cursors[sec] = m.lists[i].Index()
	}
	if err := m.states.SaveUIState(context.Background(), st); err != nil {
		m.log.Debug("ui state save failed", "err", err)
	}
}

func (m appModel) View() string {
	header := m.viewHeader()

	var body string
	switch m.modal {
	case modalAdd:
		body = m.placeModal(renderModalBox(m.width, "Add to "+m.addTo.Title(), m.input.View()+"\n\n"+styleMuted().Render("enter: add   esc: cancel")))
	case modalConfirmDelete:
		t, _ := m.selectedTask()
		body = m.placeModal(renderConfirmModal(m.width, "Delete task", fmt.Sprintf("Delete %q from %s?", t.Text, t.Section.Title()), "Delete", "Cancel", m.confirmFocus))
	case modalSync:
		body = m.placeModal(m.viewSyncModal())
	default:
		body = m.viewSections()
		if m.showPreview {
			body = lipgloss.JoinVertical(lipgloss.Left, body, styleMuted().Render(strings.Repeat(glyphHRule(), max(0, m.width))), m.preview.View())
		}
	}

	return strings.Join([]string{header, body, m.viewFooter()}, "\n")
}

func (m appModel) viewHeader() string {
	file := "no file (sync disabled)"
	if m.sess.HasFile() {
		file = m.sess.Path()
	}
	parts := []string{lipgloss.NewStyle().Bold(true).Render("pomo"), styleMuted().Render(file)}
	if t, ok := m.sess.ActiveTask(); ok {
		parts = append(parts, glyphActive()+" "+t.Text)
	}
	return strings.Join(parts, "  ")
}

func (m appModel) viewSections() string {
	doc := m.sess.Document()
	cols := make([]string, 0, len(model.Sections))
	for i, sec := range model.Sections {
		title := styleSectionTitle(sec == m.focus).Render(fmt.Sprintf("%s (%d)", sec.Title(), doc.Len(sec)))
		col := lipgloss.JoinVertical(lipgloss.Left, title, m.lists[i].View())
		cols = append(cols, lipgloss.NewStyle().Width(m.lists[i].Width()+1).Render(col))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m appModel) viewFooter() string {
	if m.flash != "" {
		return styleFlash(m.flashErr).Render(m.flash)
	}
	var km help.KeyMap = m.keys
	if m.modal == modalSync {
		km = m.syncKeys
	}
	if m.showHelp {
		return m.help.FullHelpView(km.FullHelp())
	}
	return m.help.ShortHelpView(km.ShortHelp())
}

func (m appModel) placeModal(box string) string {
	h := m.height - 2
	if h < lipgloss.Height(box) {
		return box
	}
	return lipgloss.Place(m.width, h, lipgloss.Center, lipgloss.Center, box)
}
