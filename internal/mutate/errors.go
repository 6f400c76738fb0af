package mutate

import (
	"errors"
	"fmt"

	"pomo-cli/internal/model"
)

var (
	ErrEmptyText          = errors.New("task text is empty")
	ErrInvalidText        = errors.New("task text must be a single line")
	ErrInvalidSection     = errors.New("invalid section")
	ErrTaskNotFound       = errors.New("task not found")
	ErrPositionOutOfRange = errors.New("position out of range")
)

type TaskNotFoundError struct {
	Section model.Section
	Text    string
}

func (e TaskNotFoundError) Error() string {
	if e.Section == "" {
		return fmt.Sprintf("task not found: %s", e.Text)
	}
	return fmt.Sprintf("task not found in %s: %s", e.Section, e.Text)
}

func (e TaskNotFoundError) Is(target error) bool { return target == ErrTaskNotFound }

type PositionOutOfRangeError struct {
	Section model.Section
	Index   int
	Len     int
}

func (e PositionOutOfRangeError) Error() string {
	return fmt.Sprintf("position %d out of range for %s (len %d)", e.Index, e.Section, e.Len)
}

func (e PositionOutOfRangeError) Is(target error) bool { return target == ErrPositionOutOfRange }
