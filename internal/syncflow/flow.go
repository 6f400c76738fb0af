// Package syncflow drives one interactive sync between the in-memory task
// document and its checklist file.
package syncflow

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"pomo-cli/internal/checklist"
	"pomo-cli/internal/model"
	"pomo-cli/internal/reconcile"
)

type State int

const (
	Idle State = iota
	Comparing
	Presenting
	ApplyWriteToFile
	ApplyReadFromFile
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Comparing:
		return "comparing"
	case Presenting:
		return "presenting"
	case ApplyWriteToFile:
		return "write-to-file"
	case ApplyReadFromFile:
		return "read-from-file"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type Resolution int

const (
	// WriteToFile serializes memory over the file, dropping added-in-file tasks.
	WriteToFile Resolution = iota + 1
	// ReadFromFile replaces Backlog and Completed from the file. Active is kept.
	ReadFromFile
	// Cancel leaves both sides untouched.
	Cancel
	// PerItem applies the per-divergence choices, then writes memory to the file.
	PerItem
)

func (r Resolution) String() string {
	switch r {
	case WriteToFile:
		return "write-to-file"
	case ReadFromFile:
		return "read-from-file"
	case Cancel:
		return "cancel"
	case PerItem:
		return "per-item"
	default:
		return fmt.Sprintf("resolution(%d)", int(r))
	}
}

// ParseResolution accepts the names printed by Resolution.String plus the
// short forms "write" and "read".
func ParseResolution(s string) (Resolution, bool) {
	switch s {
	case "write-to-file", "write":
		return WriteToFile, true
	case "read-from-file", "read":
		return ReadFromFile, true
	case "cancel":
		return Cancel, true
	case "per-item":
		return PerItem, true
	default:
		return 0, false
	}
}

// Choice is the per-item decision for one divergence.
type Choice int

const (
	KeepMemory Choice = iota
	KeepFile
)

func (c Choice) String() string {
	if c == KeepFile {
		return "file"
	}
	return "memory"
}

var (
	ErrInvalidState      = errors.New("invalid sync state")
	ErrNoSuchDivergence  = errors.New("no such divergence")
	ErrInvalidResolution = errors.New("invalid resolution")
	// ErrFileChanged means the file no longer holds the tasks that were
	// presented. The flow has compared again and is still Presenting.
	ErrFileChanged = errors.New("checklist file changed since it was compared")
)

// File is the checklist a flow reads and writes.
type File interface {
	Read() (checklist.Snapshot, error)
	Write(content string) error
}

type Option func(*Flow)

func WithLogger(l *slog.Logger) Option {
	return func(f *Flow) {
		if l != nil {
			f.log = l
		}
	}
}

// Flow is a single sync attempt. It is not safe for concurrent use.
type Flow struct {
	doc  *model.Document
	file File
	log  *slog.Logger

	state State
	last  State

	snap    checklist.Snapshot
	result  reconcile.Result
	divs    []reconcile.Divergence
	choices []Choice
}

func New(doc *model.Document, file File, opts ...Option) *Flow {
	f := &Flow{
		doc:  doc,
		file: file,
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

func (f *Flow) State() State { return f.state }

// Outcome is the terminal state of the last finished attempt, or Idle.
func (f *Flow) Outcome() State { return f.last }

// Active reports whether the flow holds the document lock.
func (f *Flow) Active() bool {
	return f.state == Comparing || f.state == Presenting
}

// Start reads the file and compares it with memory. With nothing to show the
// flow returns straight to Idle; otherwise it moves to Presenting.
func (f *Flow) Start() error {
	if f.state != Idle {
		return fmt.Errorf("%w: start from %s", ErrInvalidState, f.state)
	}
	f.state = Comparing
	f.log.Debug("sync compare", "state", f.state)

	snap, err := f.file.Read()
	if err != nil {
		f.state = Idle
		f.log.Warn("sync compare failed", "err", err)
		return err
	}
	f.snap = snap
	f.result = reconcile.Reconcile(f.doc, snap)
	f.divs = f.result.Divergences()
	f.choices = make([]Choice, len(f.divs))

	if len(f.divs) == 0 {
		f.state = Idle
		f.last = Idle
		f.log.Debug("sync compare: in sync")
		return nil
	}
	f.state = Presenting
	f.log.Debug("sync presenting", "divergences", len(f.divs), "ambiguous", len(f.result.Ambiguous()))
	return nil
}

// Divergences returns the classified differences while Presenting.
func (f *Flow) Divergences() []reconcile.Divergence {
	if f.state != Presenting {
		return nil
	}
	return append([]reconcile.Divergence(nil), f.divs...)
}

func (f *Flow) Result() reconcile.Result { return f.result }

// Snapshot is the file state the current comparison was made against.
func (f *Flow) Snapshot() checklist.Snapshot { return f.snap }

func (f *Flow) Choices() []Choice { return append([]Choice(nil), f.choices...) }

// Choose sets the per-item decision for divergence i. Ambiguous entries
// cannot be chosen: they always follow memory.
func (f *Flow) Choose(i int, c Choice) error {
	if f.state != Presenting {
		return fmt.Errorf("%w: choose in %s", ErrInvalidState, f.state)
	}
	if i < 0 || i >= len(f.divs) {
		return fmt.Errorf("%w: %d", ErrNoSuchDivergence, i)
	}
	if err := f.divs[i].Err(); err != nil {
		return err
	}
	f.choices[i] = c
	return nil
}

// Resolve finishes a Presenting flow. A failed write or read leaves the flow
// Presenting with memory and file untouched, so the caller can retry or cancel.
// So does a file whose tasks changed after Start: see ErrFileChanged.
func (f *Flow) Resolve(r Resolution) error {
	if r == Cancel {
		f.Cancel()
		return nil
	}
	if f.state != Presenting {
		return fmt.Errorf("%w: resolve %s from %s", ErrInvalidState, r, f.state)
	}
	switch r {
	case WriteToFile, PerItem, ReadFromFile:
	default:
		return fmt.Errorf("%w: %d", ErrInvalidResolution, int(r))
	}
	if err := f.recheck(); err != nil {
		return err
	}

	var (
		next State
		err  error
	)
	switch r {
	case WriteToFile:
		next = ApplyWriteToFile
		err = f.writeToFile(f.doc)
	case PerItem:
		next = ApplyWriteToFile
		err = f.applyChoices()
	case ReadFromFile:
		next = ApplyReadFromFile
		f.readFromFile()
	}
	if err != nil {
		f.log.Warn("sync resolve failed", "resolution", r, "err", err)
		return err
	}
	f.finish(next)
	return nil
}

// Cancel abandons the flow from any state without side effects.
func (f *Flow) Cancel() {
	if f.state == Idle {
		return
	}
	f.finish(Cancelled)
}

func (f *Flow) finish(terminal State) {
	f.log.Debug("sync finished", "outcome", terminal)
	f.last = terminal
	f.state = Idle
}

func (f *Flow) writeToFile(doc *model.Document) error {
	out := checklist.Render(doc, f.snap)
	if err := f.file.Write(out); err != nil {
		return err
	}
	f.snap = checklist.Parse(out)
	f.log.Debug("sync wrote file", "bytes", len(out))
	return nil
}

// recheck reads the file again before a resolution is applied. If its tasks
// differ from the presented snapshot, the comparison is redone and
// ErrFileChanged is returned so the new divergences can be shown first.
func (f *Flow) recheck() error {
	snap, err := f.file.Read()
	if err != nil {
		return err
	}
	if slices.Equal(snap.Backlog, f.snap.Backlog) && slices.Equal(snap.Completed, f.snap.Completed) {
		f.snap = snap
		return nil
	}
	f.snap = snap
	f.result = reconcile.Reconcile(f.doc, snap)
	f.divs = f.result.Divergences()
	f.choices = make([]Choice, len(f.divs))
	f.log.Debug("sync file changed; compared again", "divergences", len(f.divs))
	return ErrFileChanged
}

// readFromFile applies the snapshot that was presented.
func (f *Flow) readFromFile() {
	active := map[string]bool{}
	for _, t := range f.doc.Texts(model.SectionActive) {
		active[t] = true
	}
	var backlog []string
	for _, t := range f.snap.Backlog {
		if !active[t] {
			backlog = append(backlog, t)
		}
	}
	f.doc.SetTexts(model.SectionBacklog, backlog)
	f.doc.SetTexts(model.SectionCompleted, f.snap.Completed)
	f.log.Debug("sync read file", "backlog", len(backlog), "completed", len(f.snap.Completed))
}

// applyChoices builds the chosen document, writes it, and only then commits
// it to memory.
func (f *Flow) applyChoices() error {
	next := f.doc.Clone()
	for i, d := range f.divs {
		if f.choices[i] != KeepFile {
			continue
		}
		switch d.Kind {
		case reconcile.KindAddedInMemory:
			if idx := next.Index(d.MemorySection, d.Text); idx >= 0 {
				texts := next.Texts(d.MemorySection)
				next.SetTexts(d.MemorySection, append(texts[:idx], texts[idx+1:]...))
			}
		case reconcile.KindAddedInFile:
			next.SetTexts(d.Section, append(next.Texts(d.Section), d.Text))
		}
	}
	if err := f.writeToFile(next); err != nil {
		return err
	}
	for _, s := range model.Sections {
		f.doc.SetTexts(s, next.Texts(s))
	}
	return nil
}
