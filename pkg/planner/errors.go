package planner

import (
	"errors"
	"fmt"

	"github.com/harrisonrobin/dayplan/pkg/model"
)

// Validation and lookup failures. Each is returned before anything is written.
var (
	ErrEmptyText       = errors.New("task description cannot be empty")
	ErrNoCategory      = errors.New("a category must be selected")
	ErrUnknownCategory = errors.New("unknown category")
	ErrNoSlots         = errors.New("at least one time slot must be selected")
	ErrUnknownSlot     = errors.New("unknown time slot")
	ErrTaskNotFound    = errors.New("task not found")

	// ErrSlotConflict is wrapped by *ConflictError.
	ErrSlotConflict = errors.New("time slot already taken")
)

// ConflictError names the task that already holds one of the requested slots.
type ConflictError struct {
	Task model.Task
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%v by %q (%s, %s)", ErrSlotConflict, e.Task.Task, e.Task.Category, e.Task.ID)
}

func (e *ConflictError) Unwrap() error {
	return ErrSlotConflict
}
