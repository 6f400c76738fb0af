// Package session ties the task document to an optional checklist file and
// serializes access to it while a sync is in progress.
package session

import (
	"errors"
	"io"
	"log/slog"

	"pomo-cli/internal/checklist"
	"pomo-cli/internal/model"
	"pomo-cli/internal/mutate"
	"pomo-cli/internal/store"
	"pomo-cli/internal/syncflow"
)

var (
	ErrSyncInProgress = errors.New("sync in progress")
	ErrNoFile         = errors.New("no checklist file; sync is disabled")
)

type Option func(*Session)

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

type Session struct {
	doc  *model.Document
	file *store.ChecklistFile
	snap *checklist.Snapshot
	flow *syncflow.Flow
	log  *slog.Logger
}

// New returns a session with an empty document and no file.
func New(opts ...Option) *Session {
	s := &Session{
		doc: &model.Document{},
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load reads path into a new session. On error the returned session is still
// usable: its document is empty and no file is attached.
func Load(path string, opts ...Option) (*Session, error) {
	s := New(opts...)
	f := store.ChecklistFile{Path: path}
	snap, err := f.Read()
	if err != nil {
		s.log.Warn("load failed", "path", path, "err", err)
		return s, err
	}
	s.doc = snap.Document()
	s.file = &f
	s.snap = &snap
	s.log.Debug("loaded", "path", path, "backlog", len(snap.Backlog), "completed", len(snap.Completed))
	return s, nil
}

// Document returns a copy of the current document.
func (s *Session) Document() *model.Document { return s.doc.Clone() }

func (s *Session) HasFile() bool { return s.file != nil }

func (s *Session) Path() string {
	if s.file == nil {
		return ""
	}
	return s.file.Path
}

// Snapshot returns the most recent file state read or written by the session.
func (s *Session) Snapshot() (checklist.Snapshot, bool) {
	if s.flow != nil && s.flow.Outcome() != syncflow.Idle {
		return s.flow.Snapshot(), true
	}
	if s.snap == nil {
		return checklist.Snapshot{}, false
	}
	return *s.snap, true
}

// Flow returns the sync flow holding the document lock, if any.
func (s *Session) Flow() *syncflow.Flow {
	if s.flow != nil && s.flow.Active() {
		return s.flow
	}
	return nil
}

func (s *Session) Syncing() bool { return s.Flow() != nil }

// StartSync compares the document with the file. The returned flow is Idle
// when both already agree, and Presenting otherwise.
func (s *Session) StartSync() (*syncflow.Flow, error) {
	if s.file == nil {
		return nil, ErrNoFile
	}
	if s.Syncing() {
		return nil, ErrSyncInProgress
	}
	flow := syncflow.New(s.doc, s.file, syncflow.WithLogger(s.log))
	if err := flow.Start(); err != nil {
		return nil, err
	}
	s.flow = flow
	if flow.State() == syncflow.Idle {
		snap := flow.Snapshot()
		s.snap = &snap
	}
	return flow, nil
}

func (s *Session) guard() error {
	if s.Syncing() {
		return ErrSyncInProgress
	}
	return nil
}

func (s *Session) Add(text string, section model.Section) (mutate.Result, error) {
	if err := s.guard(); err != nil {
		return mutate.Result{}, err
	}
	return mutate.Add(s.doc, text, section)
}

func (s *Session) MoveTask(text string, from, to model.Section, at int) (mutate.Result, error) {
	if err := s.guard(); err != nil {
		return mutate.Result{}, err
	}
	return mutate.MoveTask(s.doc, text, from, to, at)
}

func (s *Session) Reorder(section model.Section, from, to int) (mutate.Result, error) {
	if err := s.guard(); err != nil {
		return mutate.Result{}, err
	}
	return mutate.Reorder(s.doc, section, from, to)
}

func (s *Session) ReorderUp(section model.Section, index int) (mutate.Result, error) {
	if err := s.guard(); err != nil {
		return mutate.Result{}, err
	}
	return mutate.ReorderUp(s.doc, section, index)
}

func (s *Session) ReorderDown(section model.Section, index int) (mutate.Result, error) {
	if err := s.guard(); err != nil {
		return mutate.Result{}, err
	}
	return mutate.ReorderDown(s.doc, section, index)
}

func (s *Session) Complete(text string) (mutate.Result, error) {
	if err := s.guard(); err != nil {
		return mutate.Result{}, err
	}
	return mutate.Complete(s.doc, text)
}

func (s *Session) CompleteActive() (mutate.Result, error) {
	if err := s.guard(); err != nil {
		return mutate.Result{}, err
	}
	return mutate.CompleteActive(s.doc)
}

func (s *Session) CycleSection(section model.Section, index int) (mutate.Result, error) {
	if err := s.guard(); err != nil {
		return mutate.Result{}, err
	}
	return mutate.CycleSection(s.doc, section, index)
}

func (s *Session) ToggleCompletion(section model.Section, index int) (mutate.Result, error) {
	if err := s.guard(); err != nil {
		return mutate.Result{}, err
	}
	return mutate.ToggleCompletion(s.doc, section, index)
}

func (s *Session) Delete(section model.Section, index int) (mutate.Result, error) {
	if err := s.guard(); err != nil {
		return mutate.Result{}, err
	}
	return mutate.Delete(s.doc, section, index)
}

func (s *Session) ActiveTask() (model.Task, bool) { return mutate.ActiveTask(s.doc) }

// CreateDefaultFile creates the default task file if needed and attaches it.
func (s *Session) CreateDefaultFile() (string, error) {
	path, err := store.DefaultTaskFilePath()
	if err != nil {
		return "", err
	}
	return path, s.CreateFile(path)
}

// CreateFile creates path if it does not exist, attaches it, and merges its
// tasks into the document without duplicating texts already present.
func (s *Session) CreateFile(path string) error {
	if err := s.guard(); err != nil {
		return err
	}
	f := store.ChecklistFile{Path: path}
	if err := f.Ensure(); err != nil {
		return err
	}
	snap, err := f.Read()
	if err != nil {
		return err
	}

	for _, t := range snap.Backlog {
		if s.doc.Index(model.SectionBacklog, t) < 0 && s.doc.Index(model.SectionActive, t) < 0 {
			s.doc.SetTexts(model.SectionBacklog, append(s.doc.Texts(model.SectionBacklog), t))
		}
	}
	for _, t := range snap.Completed {
		if s.doc.Index(model.SectionCompleted, t) < 0 {
			s.doc.SetTexts(model.SectionCompleted, append(s.doc.Texts(model.SectionCompleted), t))
		}
	}
	s.file = &f
	s.snap = &snap
	s.flow = nil
	s.log.Debug("attached file", "path", path, "tasks", snap.TaskCount())
	return nil
}

// WriteThrough syncs the document to the file, resolving any divergence in
// favor of memory. A file that already holds the same tasks is still
// rewritten when their order differs. It returns ApplyWriteToFile when the
// file was rewritten and Idle when it already matched.
func (s *Session) WriteThrough() (syncflow.State, error) {
	flow, err := s.StartSync()
	if err != nil {
		return syncflow.Idle, err
	}
	if flow.State() == syncflow.Idle {
		wrote, err := s.SaveOrder()
		if err != nil || !wrote {
			return syncflow.Idle, err
		}
		return syncflow.ApplyWriteToFile, nil
	}
	if err := flow.Resolve(syncflow.WriteToFile); err != nil {
		flow.Cancel()
		return syncflow.Idle, err
	}
	return flow.Outcome(), nil
}

// SaveOrder rewrites the file when it lists the document's tasks in another
// order. It relies on the snapshot taken by the last StartSync, so call it
// only after StartSync reported the two sides in sync.
func (s *Session) SaveOrder() (bool, error) {
	if s.file == nil {
		return false, ErrNoFile
	}
	if err := s.guard(); err != nil {
		return false, err
	}
	if s.snap == nil {
		return false, nil
	}
	snap := *s.snap
	out := checklist.Render(s.doc, snap)
	if out == checklist.Render(snap.Document(), snap) {
		return false, nil
	}
	if err := s.file.Write(out); err != nil {
		return false, err
	}
	next := checklist.Parse(out)
	s.snap = &next
	s.flow = nil
	s.log.Debug("wrote task order", "path", s.file.Path)
	return true, nil
}
