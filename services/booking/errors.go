package booking

import (
	"fmt"
	"strings"
)

// Categories named by a ValidationError.
const (
	CategorySelection    = "expert/service selection"
	CategoryPersonalInfo = "personal information"
	CategoryDateTime     = "date/time"
)

// ValidationError reports the first incomplete category of a booking input.
type ValidationError struct {
	Category string
	Fields   []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s is incomplete (missing %s)", e.Category, strings.Join(e.Fields, ", "))
}

// StorageError wraps a failure returned by the booking store.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %v", e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
