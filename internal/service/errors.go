package service

import (
	"errors"
	"fmt"
)

// Error kinds returned by the lifecycle and notification services.
// Match them with errors.Is; the concrete types carry detail.
var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrInvalidStatus = errors.New("invalid status transition")
	ErrStorage       = errors.New("storage failure")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: err.Error()}
}

// NotFoundError names the entity that could not be found.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// InvalidStatusError is returned when a transition is not legal from the goal's current status.
type InvalidStatusError struct {
	GoalID    string
	Current   string
	Requested string
}

func (e *InvalidStatusError) Error() string {
	if e.Current == "" {
		return fmt.Sprintf("goal %q: %q is not a valid decision", e.GoalID, e.Requested)
	}
	return fmt.Sprintf("goal %q: cannot move from %s to %s", e.GoalID, e.Current, e.Requested)
}

func (e *InvalidStatusError) Is(target error) bool {
	return target == ErrInvalidStatus
}

// StorageError wraps a persistence failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

func newStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}
