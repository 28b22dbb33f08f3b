package reservation

import (
	"errors"
	"fmt"
)

// ValidationCode classifies pre-commit validation failures. Every code
// carries the single offending entity id so callers can render an
// actionable message.
type ValidationCode string

const (
	CodeItemDoesNotExist           ValidationCode = "item_does_not_exist"
	CodeItemNotAvailable           ValidationCode = "item_not_available"
	CodeModelDoesNotExist          ValidationCode = "model_does_not_exist"
	CodeModelAvailableCountInvalid ValidationCode = "model_available_count_invalid"
)

// ValidationError is recoverable and user-actionable; it never indicates a
// partially applied write.
type ValidationError struct {
	Code     ValidationCode
	EntityID string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s (%s)", e.Code, e.EntityID)
}

// ErrCreationFailed means the install transaction did not apply. No document
// in the batch was written; the caller may retry from validation.
var ErrCreationFailed = errors.New("reservation: installed list creation failed")
