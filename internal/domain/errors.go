package domain

import "errors"

// ErrTaskNotFound is returned by repositories when no visible task has the given id.
var ErrTaskNotFound = errors.New("task not found")

// ValidationError reports a broken Task invariant.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
