package cli

import (
	"fmt"
	"strings"

	"pomo-cli/internal/format"
	"pomo-cli/internal/model"
	"pomo-cli/internal/mutate"
	"pomo-cli/internal/reconcile"
	"pomo-cli/internal/syncflow"
)

// envelope is the JSON shape of every command's stdout.
type envelope struct {
	Data any `json:"data"`
}

func (e envelope) Text() string {
	if t, ok := e.Data.(format.Texter); ok {
		return t.Text()
	}
	return fmt.Sprint(e.Data)
}

func out(v any) envelope { return envelope{Data: v} }

type documentView struct {
	Path      string       `json:"path"`
	Backlog   []model.Task `json:"backlog"`
	Active    []model.Task `json:"active"`
	Completed []model.Task `json:"completed"`
}

func newDocumentView(path string, doc *model.Document) documentView {
	return documentView{
		Path:      path,
		Backlog:   doc.Tasks(model.SectionBacklog),
		Active:    doc.Tasks(model.SectionActive),
		Completed: doc.Tasks(model.SectionCompleted),
	}
}

func (v documentView) Text() string {
	var b strings.Builder
	for _, sec := range []struct {
		s     model.Section
		tasks []model.Task
	}{
		{model.SectionBacklog, v.Backlog},
		{model.SectionActive, v.Active},
		{model.SectionCompleted, v.Completed},
	} {
		fmt.Fprintf(&b, "%s (%d)\n", sec.s.Title(), len(sec.tasks))
		for _, t := range sec.tasks {
			mark := " "
			if sec.s == model.SectionCompleted {
				mark = "x"
			}
			fmt.Fprintf(&b, "  %2d [%s] %s\n", t.Position, mark, t.Text)
		}
	}
	return b.String()
}

type mutationView struct {
	Path    string     `json:"path"`
	Action  string     `json:"action"`
	Task    model.Task `json:"task"`
	Changed bool       `json:"changed"`
	Sync    string     `json:"sync"`
}

func newMutationView(path, action string, res mutate.Result, outcome syncflow.State) mutationView {
	return mutationView{Path: path, Action: action, Task: res.Task, Changed: res.Changed, Sync: outcome.String()}
}

func (v mutationView) Text() string {
	if !v.Changed {
		return fmt.Sprintf("%s: nothing to do for %q", v.Action, v.Task.Text)
	}
	return fmt.Sprintf("%s %q (%s #%d); file %s", v.Action, v.Task.Text, v.Task.Section, v.Task.Position, v.Sync)
}

type divergenceView struct {
	Memory      string                 `json:"memory"`
	File        string                 `json:"file"`
	InSync      bool                   `json:"inSync"`
	Counts      map[reconcile.Kind]int `json:"counts"`
	Divergences []reconcile.Divergence `json:"divergences"`
	Outcome     string                 `json:"outcome,omitempty"`
}

func (v divergenceView) Text() string {
	var b strings.Builder
	if v.InSync {
		fmt.Fprintf(&b, "%s and %s are in sync\n", v.Memory, v.File)
	}
	for _, d := range v.Divergences {
		switch d.Kind {
		case reconcile.KindAddedInMemory:
			fmt.Fprintf(&b, "+ %-10s %s\n", d.MemorySection, d.Text)
		case reconcile.KindAddedInFile:
			fmt.Fprintf(&b, "- %-10s %s\n", d.Section, d.Text)
		case reconcile.KindAmbiguous:
			fmt.Fprintf(&b, "? %-10s %s (%d in memory, %d in file)\n", d.Section, d.Text, d.MemoryCount, d.FileCount)
		}
	}
	if v.Outcome != "" {
		fmt.Fprintf(&b, "outcome: %s\n", v.Outcome)
	}
	return b.String()
}
