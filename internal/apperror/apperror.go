// Package apperror defines the error taxonomy shared by every layer.
//
// All failures the core can produce wrap one of the sentinel errors below,
// so callers classify them with errors.Is() without depending on concrete
// types:
//
//	if errors.Is(err, apperror.ErrNotFound) { ... }
//
// The core returns these errors; it never logs, retries, or suppresses them.
// That policy belongs to the caller.
package apperror

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")

	// ErrInvalidCredentials covers both "unknown email" and "wrong password".
	// Authentication deliberately does not distinguish the two cases, so an
	// attacker cannot probe which emails are registered.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AppError is a single typed failure with a human-readable message and,
// for validation failures, the field that caused it.
type AppError struct {
	Err     error  // sentinel cause
	Message string // human-readable error message
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports that a lookup found nothing.
func NotFound(resource string, id int64) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %d", resource, id),
	}
}

// ValidationFailed reports a single violated constraint on one field.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports a uniqueness collision detected at write time, e.g. two
// concurrent creates racing past the duplicate-email pre-check.
func Conflict(resource, detail string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict: %s", resource, detail),
	}
}

// InvalidCredentials is returned by authentication for every failure mode.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "invalid email or password",
	}
}

// ValidationError aggregates every constraint violated by one create/update
// call. Creation is atomic: if this error is returned, nothing was persisted
// and Fields lists one entry per broken constraint.
type ValidationError struct {
	Fields []*AppError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Unwrap makes errors.Is(err, ErrValidation) true for the aggregate too.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Add appends one field violation.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, ValidationFailed(field, message))
}

// Has reports whether any recorded violation concerns the given field.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// OrNil returns the error if any violation was recorded, nil otherwise.
// Lets validation code build up the error unconditionally and decide at
// the end:
//
//	verr := &ValidationError{}
//	... verr.Add(...) as checks fail ...
//	return verr.OrNil()
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
