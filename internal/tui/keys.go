package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Top       key.Binding
	Bottom    key.Binding
	NextPane  key.Binding
	PrevPane  key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	Add       key.Binding
	AddActive key.Binding
	Cycle     key.Binding
	Toggle    key.Binding
	Complete  key.Binding
	Delete    key.Binding
	Sync      key.Binding
	Init      key.Binding
	Preview   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("k", "up", "ctrl+p"), key.WithHelp("k/↑", "up")),
		Down:      key.NewBinding(key.WithKeys("j", "down", "ctrl+n"), key.WithHelp("j/↓", "down")),
		Top:       key.NewBinding(key.WithKeys("g", "home", "<"), key.WithHelp("g", "top")),
		Bottom:    key.NewBinding(key.WithKeys("G", "end", ">"), key.WithHelp("G", "bottom")),
		NextPane:  key.NewBinding(key.WithKeys("tab", "l", "right"), key.WithHelp("tab", "next section")),
		PrevPane:  key.NewBinding(key.WithKeys("shift+tab", "h", "left"), key.WithHelp("shift+tab", "prev section")),
		MoveUp:    key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move up")),
		MoveDown:  key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to backlog")),
		AddActive: key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "add to active")),
		Cycle:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "backlog/active")),
		Toggle:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "complete/reopen")),
		Complete:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "complete active task")),
		Delete:    key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Sync:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sync")),
		Init:      key.NewBinding(key.WithKeys("I"), key.WithHelp("I", "create default file")),
		Preview:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preview")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Cycle, k.Toggle, k.Sync, k.Preview, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.NextPane, k.PrevPane},
		{k.Add, k.AddActive, k.Cycle, k.Toggle, k.Complete, k.MoveUp, k.MoveDown, k.Delete},
		{k.Sync, k.Init, k.Preview, k.Help, k.Quit},
	}
}

type syncKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Write      key.Binding
	Read       key.Binding
	KeepMemory key.Binding
	KeepFile   key.Binding
	Apply      key.Binding
	Cancel     key.Binding
}

func newSyncKeyMap() syncKeyMap {
	return syncKeyMap{
		Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		Write:      key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "write to file")),
		Read:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "read from file")),
		KeepMemory: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "keep memory")),
		KeepFile:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "keep file")),
		Apply:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply choices")),
		Cancel:     key.NewBinding(key.WithKeys("esc", "q", "ctrl+g", "ctrl+c"), key.WithHelp("esc", "cancel")),
	}
}

func (k syncKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Write, k.Read, k.KeepMemory, k.KeepFile, k.Apply, k.Cancel}
}

func (k syncKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, k.ShortHelp()}
}
