package application

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/example/academic-timetable/internal/persistence"
	"github.com/example/academic-timetable/internal/scheduler"
)

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrAlreadyExists is returned when a unique value is already taken.
	ErrAlreadyExists = errors.New("application: already exists")
	// ErrReferenceMissing is returned when a referenced record does not exist.
	ErrReferenceMissing = errors.New("application: referenced record does not exist")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
	cause       error
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	if len(v.FieldErrors) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(v.FieldErrors))
	for field := range v.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// Unwrap exposes the store error a validation failure was derived from, if any.
func (v *ValidationError) Unwrap() error {
	if v == nil {
		return nil
	}
	return v.cause
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// merge copies entries from another validation error into the receiver.
func (v *ValidationError) merge(other *ValidationError) {
	if other == nil || len(other.FieldErrors) == 0 {
		return
	}
	for field, msg := range other.FieldErrors {
		v.add(field, msg)
	}
}

// RejectionError reports that a schedule entry was refused admission. It
// unwraps to the *scheduler.Rejection that caused it.
type RejectionError struct {
	Rejection *scheduler.Rejection
}

// Error implements the error interface.
func (r *RejectionError) Error() string {
	if r == nil || r.Rejection == nil {
		return "schedule entry rejected"
	}
	return r.Rejection.Message
}

// Unwrap returns the underlying rejection.
func (r *RejectionError) Unwrap() error {
	if r == nil || r.Rejection == nil {
		return nil
	}
	return r.Rejection
}

// Kind is the rejection kind, or empty when unset.
func (r *RejectionError) Kind() scheduler.RejectionKind {
	if r == nil || r.Rejection == nil {
		return ""
	}
	return r.Rejection.Kind
}

// asRejectionError converts a scheduler rejection anywhere in the chain.
func asRejectionError(err error) (*RejectionError, bool) {
	var rej *scheduler.Rejection
	if errors.As(err, &rej) {
		return &RejectionError{Rejection: rej}, true
	}
	return nil, false
}

// mapRepoError translates store failures into application errors. The store
// error stays in the chain so both sentinels match errors.Is.
func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, persistence.ErrDuplicate):
		return fmt.Errorf("%w: %w", ErrAlreadyExists, err)
	case errors.Is(err, persistence.ErrForeignKeyViolation):
		return fmt.Errorf("%w: %w", ErrReferenceMissing, err)
	case errors.Is(err, persistence.ErrConstraintViolation):
		vErr := &ValidationError{cause: err}
		vErr.add("record", "violates a storage constraint")
		return vErr
	}
	return err
}
