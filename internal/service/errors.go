package service

import (
	"errors"
	"fmt"
)

// Domain failure kinds surfaced by the services. Transport code maps these
// to status codes; none of them are retried automatically.
var (
	// ErrAccessDenied means the access policy rejected the actor.
	ErrAccessDenied = errors.New("access denied")

	// ErrAlreadyInFamily means the joining user already belongs to a family.
	ErrAlreadyInFamily = errors.New("user already belongs to a family")

	// ErrCodeGenerationExhausted means three generated join codes in a row
	// collided with existing families. A server-side failure, not bad input.
	ErrCodeGenerationExhausted = errors.New("could not generate a unique family code")

	// ErrBatchTooLarge means a bulk operation exceeded MaxBulkSize ids.
	ErrBatchTooLarge = errors.New("bulk operation exceeds maximum batch size")
)

// ValidationError describes malformed or missing input. Always recoverable:
// the caller fixes the input and retries.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationErr(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
