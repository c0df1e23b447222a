package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when the requested resource (session, vehicle)
// does not exist. Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, malformed email).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrPrerequisite is returned when a step is entered without the data an
// earlier step owns. It is always wrapped in a *RedirectError naming the
// step the caller must go back to.
var ErrPrerequisite = errors.New("missing prerequisite")

// ErrPaymentDeclined is returned when the payment processor refuses a charge.
var ErrPaymentDeclined = errors.New("payment declined")

// ErrPaymentTimeout is returned when a charge does not complete in time.
var ErrPaymentTimeout = errors.New("payment timed out")

// ErrPaymentInProgress is returned when a second charge is attempted for a
// session whose first charge has not finished yet.
var ErrPaymentInProgress = errors.New("payment already in progress")

// FieldError describes one invalid or missing input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors is the full set of field problems found in one submission.
// It unwraps to ErrValidation so callers can match with errors.Is.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, len(fe))
	for i, f := range fe {
		parts[i] = f.Field + ": " + f.Message
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, ", "))
}

func (fe FieldErrors) Unwrap() error { return ErrValidation }

// Has reports whether field has at least one error.
func (fe FieldErrors) Has(field string) bool {
	for _, f := range fe {
		if f.Field == field {
			return true
		}
	}
	return false
}

// RedirectError is returned by step entry guards. To is the earlier step
// that owns the missing data.
type RedirectError struct {
	To Step
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("%s: redirect to %s", ErrPrerequisite, e.To)
}

func (e *RedirectError) Unwrap() error { return ErrPrerequisite }
