package domain

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Common error types
type ErrNotFound struct {
	Entity string
	ID     string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found with ID: %s", e.Entity, e.ID)
}

// ValidationError represents an error that occurs due to invalid input or parameters
type ValidationError struct {
	Message string
}

// Error implements the error interface
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new validation error with the given message
func NewValidationError(message string) error {
	return ValidationError{
		Message: message,
	}
}

// ErrUnauthorized covers bad HMAC signatures, stale timestamps and missing
// or invalid bearer tokens. It maps to HTTP 401 at the edge.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	return e.Message
}

// ErrCallContextNotFound signals that an upstream event referenced a room
// with no matching call log. The caller treats this as a silent drop, not a
// failure, because upstream redelivery would not help.
var ErrCallContextNotFound = errors.New("call context not found")

// ErrEventAlreadyProcessed signals an idempotency hit on the upstream
// event_id unique constraint. Not an error to the HTTP caller.
var ErrEventAlreadyProcessed = errors.New("event already processed")

// uniqueViolation is the PostgreSQL error code for unique constraint hits.
const uniqueViolation = "23505"

// IsDuplicateKeyError reports whether err is a PostgreSQL unique constraint
// violation. The idempotency gate relies on this instead of a pre-check,
// which would race under concurrent redelivery.
func IsDuplicateKeyError(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}
