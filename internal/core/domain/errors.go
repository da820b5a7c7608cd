package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrTableNotFound      = errors.New("table not found")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrValidation         = errors.New("validation failed")
	ErrSubmissionInFlight = errors.New("submission already in progress")
	ErrInvalidWizardStep  = errors.New("invalid wizard step")
)

// BackendError describes a non-success response from the reservation backend.
// Status and Body are for server-side logs; callers show a generic message.
type BackendError struct {
	Op     string
	Status int
	Body   string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: backend returned status %d", e.Op, e.Status)
}

// Unwrap lets errors.Is match ErrNotFound on 404 responses.
func (e *BackendError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return ErrBackendUnavailable
}

// ValidationError carries the message shown next to the offending form.
type ValidationError struct {
	Message string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }
