package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")

	// ErrIndexUnavailable is returned while the search index circuit is open.
	ErrIndexUnavailable = errors.New("search index unavailable")
)

// FieldError describes a validation error for a specific field.
// Field uses dotted/indexed paths, e.g. "title.narratives[0].language".
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Fields returns the errors keyed by field. When a field has several
// messages, they are joined with "; ".
func (e *ValidationError) Fields() map[string]string {
	out := make(map[string]string, len(e.Errors))
	for _, fe := range e.Errors {
		if prev, ok := out[fe.Field]; ok {
			out[fe.Field] = prev + "; " + fe.Message
			continue
		}
		out[fe.Field] = fe.Message
	}
	return out
}

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// PrefixFieldErrors returns errs with prefix prepended to every field path.
func PrefixFieldErrors(prefix string, errs []FieldError) []FieldError {
	if prefix == "" {
		return errs
	}
	out := make([]FieldError, len(errs))
	for i, fe := range errs {
		out[i] = FieldError{Field: prefix + "." + fe.Field, Message: fe.Message}
	}
	return out
}
