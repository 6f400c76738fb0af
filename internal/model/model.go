package model

import "strings"

type Section string

const (
	SectionBacklog   Section = "backlog"
	SectionActive    Section = "active"
	SectionCompleted Section = "completed"
)

// Sections lists every section in display order.
var Sections = []Section{SectionBacklog, SectionActive, SectionCompleted}

func (s Section) Valid() bool {
	switch s {
	case SectionBacklog, SectionActive, SectionCompleted:
		return true
	default:
		return false
	}
}

func (s Section) Title() string {
	switch s {
	case SectionBacklog:
		return "Backlog"
	case SectionActive:
		return "Active"
	case SectionCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

// ParseSection accepts section names case-insensitively, plus the aliases
// "current" (active) and "done" (completed).
func ParseSection(s string) (Section, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "backlog":
		return SectionBacklog, true
	case "active", "current":
		return SectionActive, true
	case "completed", "done":
		return SectionCompleted, true
	default:
		return "", false
	}
}

type Task struct {
	Text     string  `json:"text"`
	Section  Section `json:"section"`
	Position int     `json:"position"`
}

// Document is the in-memory task list. Order within each slice is the task's
// position; positions are never stored separately so they stay contiguous.
type Document struct {
	Backlog   []string `json:"backlog"`
	Active    []string `json:"active"`
	Completed []string `json:"completed"`
}

func (d *Document) list(s Section) *[]string {
	switch s {
	case SectionBacklog:
		return &d.Backlog
	case SectionActive:
		return &d.Active
	case SectionCompleted:
		return &d.Completed
	default:
		return nil
	}
}

// Texts returns a copy of the task texts in s, in position order.
func (d *Document) Texts(s Section) []string {
	if d == nil {
		return nil
	}
	l := d.list(s)
	if l == nil || len(*l) == 0 {
		return nil
	}
	return append([]string(nil), (*l)...)
}

// SetTexts replaces the contents of s. Unknown sections are ignored.
func (d *Document) SetTexts(s Section, texts []string) {
	l := d.list(s)
	if l == nil {
		return
	}
	if len(texts) == 0 {
		*l = nil
		return
	}
	*l = append([]string(nil), texts...)
}

func (d *Document) Len(s Section) int {
	if d == nil {
		return 0
	}
	l := d.list(s)
	if l == nil {
		return 0
	}
	return len(*l)
}

// Tasks returns the tasks of s with their positions.
func (d *Document) Tasks(s Section) []Task {
	texts := d.Texts(s)
	out := make([]Task, 0, len(texts))
	for i, t := range texts {
		out = append(out, Task{Text: t, Section: s, Position: i})
	}
	return out
}

// All returns every task, backlog first.
func (d *Document) All() []Task {
	var out []Task
	for _, s := range Sections {
		out = append(out, d.Tasks(s)...)
	}
	return out
}

func (d *Document) Task(s Section, index int) (Task, bool) {
	if d == nil {
		return Task{}, false
	}
	l := d.list(s)
	if l == nil || index < 0 || index >= len(*l) {
		return Task{}, false
	}
	return Task{Text: (*l)[index], Section: s, Position: index}, true
}

// Index returns the position of the first task in s with the given text, or -1.
func (d *Document) Index(s Section, text string) int {
	if d == nil {
		return -1
	}
	l := d.list(s)
	if l == nil {
		return -1
	}
	for i, t := range *l {
		if t == text {
			return i
		}
	}
	return -1
}

// Contains reports whether any section holds a task with the given text.
func (d *Document) Contains(text string) bool {
	for _, s := range Sections {
		if d.Index(s, text) >= 0 {
			return true
		}
	}
	return false
}

func (d *Document) IsEmpty() bool {
	return d == nil || (len(d.Backlog) == 0 && len(d.Active) == 0 && len(d.Completed) == 0)
}

func (d *Document) Clone() *Document {
	if d == nil {
		return &Document{}
	}
	out := &Document{}
	for _, s := range Sections {
		out.SetTexts(s, d.Texts(s))
	}
	return out
}

// Equal reports whether both documents hold the same texts in the same order.
func (d *Document) Equal(o *Document) bool {
	for _, s := range Sections {
		a, b := d.Texts(s), o.Texts(s)
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
	}
	return true
}

// NormalizeText trims surrounding whitespace; internal whitespace is kept.
func NormalizeText(s string) string {
	return strings.TrimSpace(s)
}
