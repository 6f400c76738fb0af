package checklist

import (
	"strings"

	"pomo-cli/internal/model"
)

// Render writes doc into the line layout of a previously parsed file.
//
// A task keeps the line it already has in layout, matched by exact text, so
// its indentation and the filler around it survive edits to other tasks.
// Lines whose text is no longer in doc are dropped. Kept lines are refilled
// in document order, which is how a reorder reaches the file. Tasks the file
// does not have yet are written next to the task before them, or before the
// first kept line of their kind. When no line of a kind survives, unchecked
// tasks go before the first checked line and checked tasks go at the end.
// Filler lines are copied verbatim.
func Render(doc *model.Document, layout Snapshot) string {
	unchecked := append(doc.Texts(model.SectionBacklog), doc.Texts(model.SectionActive)...)
	checked := doc.Texts(model.SectionCompleted)

	eol, trailing := layout.LineEnding, layout.TrailingNewline
	if len(layout.Lines) == 0 {
		eol, trailing = "\n", true
	}
	if eol == "" {
		eol = "\n"
	}

	open := bindSlots(layout, false, unchecked)
	done := bindSlots(layout, true, checked)

	out := make([]string, 0, len(layout.Lines)+len(unchecked)+len(checked))
	firstChecked := -1
	for i, ln := range layout.Lines {
		if !ln.Task {
			out = append(out, ln.Raw)
			continue
		}
		p := open
		if ln.Checked {
			p = done
		}
		text, ok := p.fill[i]
		if !ok {
			continue
		}
		if ln.Checked && firstChecked < 0 {
			firstChecked = len(out)
		}
		out = append(out, formatLines(ln.Indent, ln.Checked, p.before[i])...)
		out = append(out, FormatLine(ln.Indent, ln.Checked, text))
		out = append(out, formatLines(ln.Indent, ln.Checked, p.after[i])...)
	}

	if len(open.orphans) > 0 {
		at := len(out)
		if firstChecked >= 0 {
			at = firstChecked
		}
		out = insertLines(out, at, formatLines("", false, open.orphans))
	}
	out = append(out, formatLines("", true, done.orphans)...)

	if len(out) == 0 {
		return ""
	}
	s := strings.Join(out, eol)
	if trailing {
		s += eol
	}
	return s
}

// slotPlan places the tasks of one kind (checked or unchecked) on layout lines.
type slotPlan struct {
	fill    map[int]string   // layout line -> task text
	before  map[int][]string // new tasks written before a kept line
	after   map[int][]string // new tasks written after a kept line
	orphans []string         // every task, when no line of the kind is kept
}

func bindSlots(layout Snapshot, checked bool, texts []string) slotPlan {
	p := slotPlan{fill: map[int]string{}, before: map[int][]string{}, after: map[int][]string{}}

	want := map[string]int{}
	for _, t := range texts {
		want[t]++
	}
	have := map[string]int{}
	var kept []int
	for i, ln := range layout.Lines {
		if !ln.Task || ln.Checked != checked || want[ln.Text] == 0 {
			continue
		}
		want[ln.Text]--
		have[ln.Text]++
		kept = append(kept, i)
	}
	if len(kept) == 0 {
		p.orphans = texts
		return p
	}

	next, anchor := 0, -1
	for _, t := range texts {
		if have[t] > 0 {
			have[t]--
			anchor = kept[next]
			p.fill[anchor] = t
			next++
			continue
		}
		if anchor < 0 {
			p.before[kept[0]] = append(p.before[kept[0]], t)
			continue
		}
		p.after[anchor] = append(p.after[anchor], t)
	}
	return p
}

// FormatLine renders one task line with a normalized marker.
func FormatLine(indent string, checked bool, text string) string {
	if checked {
		return indent + markerChecked + " " + text
	}
	return indent + markerUnchecked + " " + text
}

// Markdown renders doc as a fresh checklist with no surrounding layout.
func Markdown(doc *model.Document) string {
	return Render(doc, Snapshot{})
}

func formatLines(indent string, checked bool, texts []string) []string {
	out := make([]string, 0, len(texts))
	for _, t := range texts {
		out = append(out, FormatLine(indent, checked, t))
	}
	return out
}

func insertLines(xs []string, at int, lines []string) []string {
	out := make([]string, 0, len(xs)+len(lines))
	out = append(out, xs[:at]...)
	out = append(out, lines...)
	return append(out, xs[at:]...)
}
