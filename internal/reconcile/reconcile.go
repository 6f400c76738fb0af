// Package reconcile compares an in-memory task document with a parsed
// checklist file and classifies every task by exact text.
package reconcile

import (
	"errors"
	"fmt"

	"pomo-cli/internal/checklist"
	"pomo-cli/internal/model"
)

// ErrAmbiguousMatch marks task texts that occur more than once on a side of a
// pairing. Such tasks are reported and never classified automatically.
var ErrAmbiguousMatch = errors.New("ambiguous match")

type Kind string

const (
	KindUnchanged     Kind = "unchanged"
	KindAddedInMemory Kind = "added-in-memory"
	KindAddedInFile   Kind = "added-in-file"
	KindAmbiguous     Kind = "ambiguous"
)

// Divergence is one classified task. Section is the file-side pairing: Backlog
// (memory Backlog and Active against unchecked lines) or Completed (against
// checked lines). MemorySection is where the task lives in memory, if it does.
type Divergence struct {
	Kind          Kind          `json:"kind"`
	Section       model.Section `json:"section"`
	MemorySection model.Section `json:"memorySection,omitempty"`
	Text          string        `json:"text"`

	// Occurrence counts, set for ambiguous entries.
	MemoryCount int `json:"memoryCount,omitempty"`
	FileCount   int `json:"fileCount,omitempty"`
}

// Err returns ErrAmbiguousMatch (wrapped with detail) for ambiguous entries, nil otherwise.
func (d Divergence) Err() error {
	if d.Kind != KindAmbiguous {
		return nil
	}
	return fmt.Errorf("%w: %q appears %d time(s) in memory and %d time(s) in the file (%s)",
		ErrAmbiguousMatch, d.Text, d.MemoryCount, d.FileCount, d.Section)
}

type Result struct {
	Entries []Divergence `json:"entries"`
}

// Reconcile classifies every task of doc and snap. Positions are ignored:
// only membership per pairing is compared.
func Reconcile(doc *model.Document, snap checklist.Snapshot) Result {
	var r Result
	open := append(doc.Tasks(model.SectionBacklog), doc.Tasks(model.SectionActive)...)
	r.pair(model.SectionBacklog, open, snap.Backlog)
	r.pair(model.SectionCompleted, doc.Tasks(model.SectionCompleted), snap.Completed)
	return r
}

func (r *Result) pair(section model.Section, mem []model.Task, file []string) {
	memTexts := make([]string, 0, len(mem))
	memSection := map[string]model.Section{}
	for _, t := range mem {
		memTexts = append(memTexts, t.Text)
		if _, ok := memSection[t.Text]; !ok {
			memSection[t.Text] = t.Section
		}
	}
	mm, fm := NewMatcher(memTexts), NewMatcher(file)

	var ambiguous []string
	seen := map[string]bool{}
	isAmbiguous := func(text string) bool {
		if mm.Match(text) != Ambiguous && fm.Match(text) != Ambiguous {
			return false
		}
		if !seen[text] {
			seen[text] = true
			ambiguous = append(ambiguous, text)
		}
		return true
	}

	for _, t := range mem {
		if isAmbiguous(t.Text) {
			continue
		}
		kind := KindAddedInMemory
		if fm.Match(t.Text) == Matched {
			kind = KindUnchanged
		}
		r.Entries = append(r.Entries, Divergence{Kind: kind, Section: section, MemorySection: t.Section, Text: t.Text})
	}
	for _, text := range file {
		if isAmbiguous(text) {
			continue
		}
		if mm.Match(text) == Unmatched {
			r.Entries = append(r.Entries, Divergence{Kind: KindAddedInFile, Section: section, Text: text})
		}
	}
	for _, text := range ambiguous {
		r.Entries = append(r.Entries, Divergence{
			Kind:          KindAmbiguous,
			Section:       section,
			MemorySection: memSection[text],
			Text:          text,
			MemoryCount:   mm.Count(text),
			FileCount:     fm.Count(text),
		})
	}
}

// Divergences returns every entry that is not unchanged.
func (r Result) Divergences() []Divergence {
	return r.filter(func(d Divergence) bool { return d.Kind != KindUnchanged })
}

func (r Result) Unchanged() []Divergence {
	return r.filter(func(d Divergence) bool { return d.Kind == KindUnchanged })
}

func (r Result) Ambiguous() []Divergence {
	return r.filter(func(d Divergence) bool { return d.Kind == KindAmbiguous })
}

// Empty reports whether memory and file agree.
func (r Result) Empty() bool { return len(r.Divergences()) == 0 }

// Counts returns the number of entries per kind.
func (r Result) Counts() map[Kind]int {
	out := map[Kind]int{}
	for _, d := range r.Entries {
		out[d.Kind]++
	}
	return out
}

func (r Result) filter(keep func(Divergence) bool) []Divergence {
	var out []Divergence
	for _, d := range r.Entries {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}
