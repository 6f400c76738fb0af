package mutate

import (
	"strings"

	"pomo-cli/internal/model"
)

// AppendPosition places a task at the tail of its destination section.
const AppendPosition = -1

type Result struct {
	Task    model.Task
	Changed bool
}

// ValidateText returns the normalized task text, or an error if it cannot be
// stored as a single checklist line.
func ValidateText(text string) (string, error) {
	if strings.ContainsAny(text, "\r\n") {
		return "", ErrInvalidText
	}
	text = model.NormalizeText(text)
	if text == "" {
		return "", ErrEmptyText
	}
	return text, nil
}

func checkSection(s model.Section) error {
	if !s.Valid() {
		return ErrInvalidSection
	}
	return nil
}

// Add appends a new task to the tail of section.
func Add(doc *model.Document, text string, section model.Section) (Result, error) {
	if err := checkSection(section); err != nil {
		return Result{}, err
	}
	text, err := ValidateText(text)
	if err != nil {
		return Result{}, err
	}
	texts := append(doc.Texts(section), text)
	doc.SetTexts(section, texts)
	return Result{Task: model.Task{Text: text, Section: section, Position: len(texts) - 1}, Changed: true}, nil
}

// MoveTask moves the first task in from whose text matches into to at position
// at (AppendPosition for the tail). Both sections are renumbered.
func MoveTask(doc *model.Document, text string, from, to model.Section, at int) (Result, error) {
	if err := checkSection(from); err != nil {
		return Result{}, err
	}
	text = model.NormalizeText(text)
	idx := doc.Index(from, text)
	if idx < 0 {
		return Result{}, TaskNotFoundError{Section: from, Text: text}
	}
	return MoveAt(doc, from, idx, to, at)
}

// MoveAt is MoveTask addressed by position instead of text.
func MoveAt(doc *model.Document, from model.Section, index int, to model.Section, at int) (Result, error) {
	if err := checkSection(from); err != nil {
		return Result{}, err
	}
	if err := checkSection(to); err != nil {
		return Result{}, err
	}
	src := doc.Texts(from)
	if index < 0 || index >= len(src) {
		return Result{}, PositionOutOfRangeError{Section: from, Index: index, Len: len(src)}
	}
	text := src[index]
	src = append(src[:index], src[index+1:]...)

	var dst []string
	if from == to {
		dst = src
	} else {
		dst = doc.Texts(to)
	}
	if at == AppendPosition {
		at = len(dst)
	}
	if at < 0 || at > len(dst) {
		return Result{}, PositionOutOfRangeError{Section: to, Index: at, Len: len(dst)}
	}
	dst = insertAt(dst, at, text)

	if from == to {
		doc.SetTexts(to, dst)
	} else {
		doc.SetTexts(from, src)
		doc.SetTexts(to, dst)
	}
	return Result{
		Task:    model.Task{Text: text, Section: to, Position: at},
		Changed: from != to || at != index,
	}, nil
}

// Reorder moves the task at position from to position to within section.
func Reorder(doc *model.Document, section model.Section, from, to int) (Result, error) {
	if err := checkSection(section); err != nil {
		return Result{}, err
	}
	n := doc.Len(section)
	if from < 0 || from >= n {
		return Result{}, PositionOutOfRangeError{Section: section, Index: from, Len: n}
	}
	if to < 0 || to >= n {
		return Result{}, PositionOutOfRangeError{Section: section, Index: to, Len: n}
	}
	return MoveAt(doc, section, from, section, to)
}

// ReorderUp swaps the task at index with its predecessor. At the top it is a no-op.
func ReorderUp(doc *model.Document, section model.Section, index int) (Result, error) {
	if index == 0 && doc.Len(section) > 0 {
		t, _ := doc.Task(section, 0)
		return Result{Task: t}, nil
	}
	return Reorder(doc, section, index, index-1)
}

// ReorderDown swaps the task at index with its successor. At the bottom it is a no-op.
func ReorderDown(doc *model.Document, section model.Section, index int) (Result, error) {
	n := doc.Len(section)
	if n > 0 && index == n-1 {
		t, _ := doc.Task(section, index)
		return Result{Task: t}, nil
	}
	return Reorder(doc, section, index, index+1)
}

// Complete moves the first active (then backlog) task with the given text to
// the tail of Completed. Completing an already completed task is a no-op.
func Complete(doc *model.Document, text string) (Result, error) {
	text = model.NormalizeText(text)
	for _, s := range []model.Section{model.SectionActive, model.SectionBacklog} {
		if idx := doc.Index(s, text); idx >= 0 {
			return MoveAt(doc, s, idx, model.SectionCompleted, AppendPosition)
		}
	}
	if idx := doc.Index(model.SectionCompleted, text); idx >= 0 {
		t, _ := doc.Task(model.SectionCompleted, idx)
		return Result{Task: t}, nil
	}
	return Result{}, TaskNotFoundError{Text: text}
}

// CycleSection moves a task between Backlog and Active, appending it to the
// other section. Completed tasks are left in place.
func CycleSection(doc *model.Document, section model.Section, index int) (Result, error) {
	switch section {
	case model.SectionBacklog:
		return MoveAt(doc, section, index, model.SectionActive, AppendPosition)
	case model.SectionActive:
		return MoveAt(doc, section, index, model.SectionBacklog, AppendPosition)
	case model.SectionCompleted:
		t, ok := doc.Task(section, index)
		if !ok {
			return Result{}, PositionOutOfRangeError{Section: section, Index: index, Len: doc.Len(section)}
		}
		return Result{Task: t}, nil
	default:
		return Result{}, ErrInvalidSection
	}
}

// ToggleCompletion completes an active task or reopens a completed one into
// the backlog. Backlog tasks must be activated first.
func ToggleCompletion(doc *model.Document, section model.Section, index int) (Result, error) {
	switch section {
	case model.SectionActive:
		return MoveAt(doc, section, index, model.SectionCompleted, AppendPosition)
	case model.SectionCompleted:
		return MoveAt(doc, section, index, model.SectionBacklog, AppendPosition)
	case model.SectionBacklog:
		t, ok := doc.Task(section, index)
		if !ok {
			return Result{}, PositionOutOfRangeError{Section: section, Index: index, Len: doc.Len(section)}
		}
		return Result{Task: t}, nil
	default:
		return Result{}, ErrInvalidSection
	}
}

// ActiveTask is the task currently being worked on: the first Active entry.
func ActiveTask(doc *model.Document) (model.Task, bool) {
	return doc.Task(model.SectionActive, 0)
}

// CompleteActive completes the active task, if any.
func CompleteActive(doc *model.Document) (Result, error) {
	if _, ok := ActiveTask(doc); !ok {
		return Result{}, nil
	}
	return MoveAt(doc, model.SectionActive, 0, model.SectionCompleted, AppendPosition)
}

// Delete removes the task at index from section. Result.Task is the removed task.
func Delete(doc *model.Document, section model.Section, index int) (Result, error) {
	if err := checkSection(section); err != nil {
		return Result{}, err
	}
	texts := doc.Texts(section)
	if index < 0 || index >= len(texts) {
		return Result{}, PositionOutOfRangeError{Section: section, Index: index, Len: len(texts)}
	}
	removed := model.Task{Text: texts[index], Section: section, Position: index}
	doc.SetTexts(section, append(texts[:index], texts[index+1:]...))
	return Result{Task: removed, Changed: true}, nil
}

func insertAt(xs []string, at int, s string) []string {
	xs = append(xs, "")
	copy(xs[at+1:], xs[at:])
	xs[at] = s
	return xs
}
