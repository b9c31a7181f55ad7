package domain

import (
	"errors"
	"fmt"
)

// Common domain errors returned by taxonomy lookups and aggregation.
// All of them are caller-recoverable input validation failures.
var (
	// ErrInvalidWindow indicates that a requested window size is not positive.
	ErrInvalidWindow = errors.New("invalid window")

	// ErrUnknownStatistic indicates that a reduction name is not in the
	// statistic registry.
	ErrUnknownStatistic = errors.New("unknown statistic")

	// ErrUnknownCategory indicates that a category name is not part of the
	// taxonomy.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrMissingField indicates that a match record has no value for the
	// requested field.
	ErrMissingField = errors.New("missing field")

	// ErrInvalidConfiguration indicates that configuration is invalid or incomplete.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// FieldError reports a record that lacks the field an aggregation reads.
// It identifies the record by its rank in the match listing.
type FieldError struct {
	// Rank is the zero-based position of the record in the listing.
	Rank int

	// Field is the name of the field that was requested.
	Field string

	// Err is the underlying error, usually ErrMissingField.
	Err error
}

// Error implements the error interface for FieldError.
func (e *FieldError) Error() string {
	return fmt.Sprintf("field error: rank=%d, field=%s, err=%v", e.Rank, e.Field, e.Err)
}

// Unwrap returns the underlying error, supporting Go 1.13+ error unwrapping.
func (e *FieldError) Unwrap() error { return e.Err }

// NewFieldError creates a new FieldError with the given details.
func NewFieldError(rank int, field string, err error) *FieldError {
	return &FieldError{
		Rank:  rank,
		Field: field,
		Err:   err,
	}
}

// ValidationError represents an error that occurred during validation.
// It can contain multiple validation failures.
type ValidationError struct {
	// Entity is the name of the entity that failed validation.
	Entity string

	// Errors contains the list of validation error messages.
	Errors []string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation error for %s: %s", e.Entity, e.Errors[0])
	}
	return fmt.Sprintf("validation errors for %s: %v", e.Entity, e.Errors)
}

// Unwrap lets callers match any ValidationError against ErrInvalidConfiguration.
func (e *ValidationError) Unwrap() error { return ErrInvalidConfiguration }

// AddError adds a new error message to the validation error.
func (e *ValidationError) AddError(msg string) { e.Errors = append(e.Errors, msg) }

// HasErrors returns true if there are any validation errors.
func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }

// NewValidationError creates a new ValidationError for the given entity.
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{
		Entity: entity,
		Errors: make([]string, 0),
	}
}
