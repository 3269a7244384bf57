package progress

import (
	"errors"
	"fmt"
)

// ErrNotFound signals that a referenced goal, milestone or action does not
// exist or does not belong to the requesting owner.
var ErrNotFound = errors.New("not found")

// ValidationError rejects malformed input before any mutation.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// PeriodConflictError reports an overlap between milestone date ranges,
// identifying the conflicting milestone by title.
type PeriodConflictError struct {
	MilestoneTitle string
}

func (e *PeriodConflictError) Error() string {
	return fmt.Sprintf("period overlaps with milestone %q", e.MilestoneTitle)
}

// StateConflictError rejects a lifecycle transition that is not permitted in
// the milestone's current state.
type StateConflictError struct {
	Reason string
}

func (e *StateConflictError) Error() string {
	return e.Reason
}

// StateConflictf builds a StateConflictError from a format string.
func StateConflictf(format string, args ...interface{}) error {
	return &StateConflictError{Reason: fmt.Sprintf(format, args...)}
}
