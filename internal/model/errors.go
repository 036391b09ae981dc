package model

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyInput  = errors.New("empty task text")
	ErrNoSelection = errors.New("no tasks selected")
	ErrEmptyList   = errors.New("checklist is empty")
	ErrUnknownTask = errors.New("unknown task")
	ErrTooLong     = errors.New("task text too long")
)

// Operation names carried by TaskError.
const (
	OpAdd      = "add"
	OpToggle   = "toggle"
	OpSelect   = "select"
	OpMarkDone = "mark done"
	OpDelete   = "delete"
	OpClear    = "clear"
)

// TaskError records the controller operation that rejected a request.
type TaskError struct {
	Op  string
	Err error
}

func (e *TaskError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err.Error())
}

func (e *TaskError) Unwrap() error { return e.Err }

// Reported reports whether err is a user-facing rejection that left the
// checklist untouched. Such errors are shown to the user, never treated as fatal.
func Reported(err error) bool {
	var te *TaskError
	return errors.As(err, &te)
}

// Dialog returns the title and message a presentation layer shows for a
// reported error. ok is false for anything that is not a reported error.
func Dialog(err error) (title, msg string, ok bool) {
	if !Reported(err) {
		return "", "", false
	}
	var te *TaskError
	errors.As(err, &te)
	switch {
	case errors.Is(err, ErrEmptyInput):
		return "Input Required", "Please enter a task description!", true
	case errors.Is(err, ErrTooLong):
		return "Input Too Long", "Please shorten the task description!", true
	case errors.Is(err, ErrEmptyList):
		return "Empty List", "Your checklist is already empty!", true
	case errors.Is(err, ErrNoSelection):
		if te.Op == OpDelete {
			return "No Selection", "Please select tasks to delete!", true
		}
		return "No Selection", "Please select tasks to mark as done!", true
	}
	return "Error", err.Error(), true
}
