package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing post, status or upload.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidFilename signals a filename or id outside the allowed alphabet.
	ErrInvalidFilename = errors.New("invalid filename")
	// ErrInvalidContent signals an entry that cannot be stored.
	ErrInvalidContent = errors.New("invalid content")
	// ErrUploadTooLarge signals an upload exceeding the configured limit.
	ErrUploadTooLarge = errors.New("upload too large")
	// ErrUnsupportedUpload signals an upload with a disallowed file type.
	ErrUnsupportedUpload = errors.New("unsupported upload type")
	// ErrUnauthorized signals a missing or invalid API key.
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError carries the offending field alongside ErrInvalidContent.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidContent.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidContent }

// NewValidationError creates a validation error for the given field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
