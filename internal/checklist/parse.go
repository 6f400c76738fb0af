// Package checklist reads and writes Markdown task checklists.
//
// Only lines of the form "- [ ] text" and "- [x] text" carry tasks. Every other
// line is filler and is written back byte-for-byte.
package checklist

import (
	"strings"

	"pomo-cli/internal/model"
)

const (
	markerUnchecked = "- [ ]"
	markerChecked   = "- [x]"
)

// Line is one line of a checklist file, without its line ending.
type Line struct {
	// Raw is the original line. Only filler lines are written back from Raw.
	Raw string `json:"raw"`

	Task    bool   `json:"task"`
	Indent  string `json:"indent,omitempty"`
	Checked bool   `json:"checked,omitempty"`
	Text    string `json:"text,omitempty"`
}

// Snapshot is the parsed state of a checklist file: its tasks plus the line
// layout needed to write it back.
type Snapshot struct {
	Lines []Line `json:"lines"`

	// Backlog and Completed hold unchecked and checked task texts in file order.
	Backlog   []string `json:"backlog"`
	Completed []string `json:"completed"`

	LineEnding      string `json:"lineEnding"`
	TrailingNewline bool   `json:"trailingNewline"`
}

// Document returns the tasks of the snapshot as a document. The file never
// carries Active tasks.
func (s Snapshot) Document() *model.Document {
	doc := &model.Document{}
	doc.SetTexts(model.SectionBacklog, s.Backlog)
	doc.SetTexts(model.SectionCompleted, s.Completed)
	return doc
}

// Texts returns the snapshot's task texts for a document section.
func (s Snapshot) Texts(section model.Section) []string {
	switch section {
	case model.SectionBacklog:
		return s.Backlog
	case model.SectionCompleted:
		return s.Completed
	default:
		return nil
	}
}

func (s Snapshot) TaskCount() int { return len(s.Backlog) + len(s.Completed) }

// Parse splits text into lines and classifies each one. It never fails:
// anything that is not a well-formed task line is kept as filler.
func Parse(text string) Snapshot {
	var snap Snapshot
	snap.LineEnding = detectLineEnding(text)
	if text == "" {
		return snap
	}
	snap.TrailingNewline = strings.HasSuffix(text, "\n")

	body := text
	if snap.TrailingNewline {
		body = strings.TrimSuffix(body, snap.LineEnding)
	}
	for _, raw := range strings.Split(body, "\n") {
		if snap.LineEnding == "\r\n" {
			raw = strings.TrimSuffix(raw, "\r")
		}
		ln, ok := ParseLine(raw)
		if !ok {
			snap.Lines = append(snap.Lines, Line{Raw: raw})
			continue
		}
		snap.Lines = append(snap.Lines, ln)
		if ln.Checked {
			snap.Completed = append(snap.Completed, ln.Text)
		} else {
			snap.Backlog = append(snap.Backlog, ln.Text)
		}
	}
	return snap
}

// ParseLine recognizes a single task line. Markers with no text are not tasks.
func ParseLine(raw string) (Line, bool) {
	rest := strings.TrimLeft(raw, " \t")
	indent := raw[:len(raw)-len(rest)]
	if len(rest) < len(markerUnchecked) {
		return Line{}, false
	}

	var checked bool
	switch rest[:len(markerUnchecked)] {
	case markerUnchecked:
	case markerChecked, "- [X]":
		checked = true
	default:
		return Line{}, false
	}

	rest = rest[len(markerUnchecked):]
	if rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
		return Line{}, false
	}
	text := model.NormalizeText(rest)
	if text == "" {
		return Line{}, false
	}
	return Line{Raw: raw, Task: true, Indent: indent, Checked: checked, Text: text}, true
}

// detectLineEnding reports CRLF only when every line break in text is CRLF.
func detectLineEnding(text string) string {
	n := strings.Count(text, "\n")
	if n > 0 && strings.Count(text, "\r\n") == n {
		return "\r\n"
	}
	return "\n"
}
