package domain

import (
	"errors"
	"fmt"
)

// Request-level errors. Everything here maps to a rejection at the API
// boundary; storage failures are passed through untouched so callers can tell
// "bad request" from "try again later".
var (
	ErrCarNotFound     = errors.New("car not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrOutOfStock      = errors.New("car is out of stock")
	ErrDateConflict    = errors.New("car is already booked for the requested dates")
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// TransitionError reports an illegal booking status change. The lenient
// accept-anything behavior of the original system is deliberately not kept.
type TransitionError struct {
	From BookingStatus
	To   BookingStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition booking from %s to %s", e.From, e.To)
}
