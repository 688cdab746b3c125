package wizard

import (
	"errors"
	"fmt"
)

var (
	ErrSessionClosed      = errors.New("booking wizard is closed")
	ErrNotOnPersonalInfo  = errors.New("submit is only possible from the personal information step")
	ErrSubmissionInFlight = errors.New("a submission for this session is already in progress")
	ErrUnknownTimeSlot    = errors.New("time slot is not offered")
	ErrInvalidDate        = errors.New("date must be formatted as YYYY-MM-DD")

	// ErrSubmissionSuperseded means the session was reset or edited while the
	// booking was being created, so the result was not applied.
	ErrSubmissionSuperseded = errors.New("the session changed while the booking was being submitted")
)

// LookupError means a selected slug no longer resolves against the catalog.
type LookupError struct {
	Selection string // "expert" or "service"
	Slug      string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("selected %s %q is no longer available", e.Selection, e.Slug)
}

// IncompleteStepError is returned when asked to advance past a step whose
// required fields are not all set.
type IncompleteStepError struct {
	Step    string
	Missing []string
}

func (e *IncompleteStepError) Error() string {
	return fmt.Sprintf("step %s is incomplete: missing %v", e.Step, e.Missing)
}
