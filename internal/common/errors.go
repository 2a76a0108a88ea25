package common

import (
	"errors"
	"fmt"
	"strings"
)

// Callers should use errors.Is to match these values; services wrap them
// with context, the REST layer maps them to status codes.
var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// ErrUserNotFound marks a missing account behind a valid session.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrorNotFound)

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorValidation   = errors.New("validation failed")

	// Auth errors. Malformed, forged and expired tokens are not told apart.
	ErrInvalidToken = errors.New("invalid token")

	// Login failures; both match ErrorUnauthorized.
	ErrUnknownEmail  = fmt.Errorf("%w: unknown email", ErrorUnauthorized)
	ErrWrongPassword = fmt.Errorf("%w: wrong password", ErrorUnauthorized)
)

// FieldError describes a single rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// ValidationError carries the per-field details of a rejected request.
// It matches ErrorValidation with errors.Is.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrorValidation.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrorValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrorValidation
}
