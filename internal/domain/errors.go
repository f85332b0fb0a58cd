package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services and repositories.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEventNotFound is returned when a booking references an event that
	// does not exist at the time the reference is set or changed.
	ErrEventNotFound = errors.New("referenced event does not exist")
	// ErrDuplicateSlug is returned when an event's slug collides with an
	// existing one. The unique index on events.slug is the source of truth.
	ErrDuplicateSlug = errors.New("event slug already in use")
)

// ValidationError is a recoverable, caller-visible pre-commit failure.
// It names the offending field and the value that failed.
type ValidationError struct {
	Field string
	Value string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %q", e.Field, e.Msg, e.Value)
}

// NewValidationError builds a ValidationError for the given field, offending
// value, and message.
func NewValidationError(field, value, msg string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Msg: msg}
}
