// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Storage errors.
	ErrNotFound         = errors.New("not found")
	ErrStorageCorrupted = errors.New("storage corrupted")

	// Category errors.
	ErrDuplicateCategory = errors.New("duplicate category name")
	ErrSystemCategory    = errors.New("system category cannot be deleted")

	// Ledger errors.
	ErrSameAccount = errors.New("transfer accounts must differ")
)

// ValidationError rejects bad input before any mutation is applied.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a structured pre-mutation rejection.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a validation rejection.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ReferencedError blocks a delete because other records still point at the
// target. Count lets callers message the user instead of failing silently.
type ReferencedError struct {
	Entity string
	ID     string
	Count  int
}

func (e *ReferencedError) Error() string {
	return fmt.Sprintf("%s %s is referenced by %d record(s)", e.Entity, e.ID, e.Count)
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// FormatUserError returns a message suitable for displaying to users.
func FormatUserError(err error) string {
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return "The requested item was not found."
	case errors.Is(err, ErrDuplicateCategory):
		return "A category with this name already exists."
	case errors.Is(err, ErrSystemCategory):
		return "System categories cannot be deleted."
	case errors.Is(err, ErrSameAccount):
		return "A transfer needs two different accounts."
	case errors.Is(err, ErrStorageCorrupted):
		return "The local database appears to be corrupted."
	default:
		// Validation and wrapped errors already read well.
		return err.Error()
	}
}
