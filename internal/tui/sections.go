package tui

import (
	"fmt"
	"io"
	"strings"

	"pomo-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type taskItem struct {
	task   model.Task
	active bool // the task currently being worked on
}

func (i taskItem) FilterValue() string { return i.task.Text }

func (i taskItem) Title() string {
	mark := glyphCheckbox(i.task.Section == model.SectionCompleted)
	if i.active {
		mark = glyphActive()
	}
	return mark + " " + i.task.Text
}

// taskDelegate renders one task per row, truncated to the list width.
type taskDelegate struct {
	focused bool
}

func (d taskDelegate) Height() int  { return 1 }
func (d taskDelegate) Spacing() int { return 0 }
func (d taskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		return
	}
	it, ok := item.(taskItem)
	if !ok {
		return
	}

	style := lipgloss.NewStyle()
	if it.task.Section == model.SectionCompleted {
		style = styleMuted().Foreground(colorDone)
	}
	if index == m.Index() {
		if d.focused {
			style = lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
		} else {
			style = style.Background(colorCursorBg)
		}
	}

	line := " " + it.Title()
	lineW := xansi.StringWidth(line)
	if lineW < contentW {
		line += strings.Repeat(" ", contentW-lineW)
	} else if lineW > contentW {
		line = xansi.Truncate(line, contentW-1, "…")
		line += strings.Repeat(" ", max(0, contentW-xansi.StringWidth(line)))
	}
	fmt.Fprint(w, style.Render(line))
}

func newSectionList(s model.Section) list.Model {
	l := list.New([]list.Item{}, taskDelegate{}, 0, 0)
	l.Title = s.Title()
	// Section titles, help and status are drawn by the app.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return l
}

func sectionIndex(s model.Section) int {
	for i, sec := range model.Sections {
		if sec == s {
			return i
		}
	}
	return 0
}

func taskItems(doc *model.Document, s model.Section) []list.Item {
	tasks := doc.Tasks(s)
	items := make([]list.Item, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, taskItem{task: t, active: s == model.SectionActive && t.Position == 0})
	}
	return items
}
