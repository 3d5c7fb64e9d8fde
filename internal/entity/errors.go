package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals that the targeted id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmailAlreadyExists signals the email uniqueness invariant.
	ErrEmailAlreadyExists = errors.New("a lead with this email already exists")
)

// ValidationError reports caller-supplied data that violates a precondition.
// It is always detected before any mutating statement is issued.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// StorageError wraps a backing-store failure so callers can distinguish it
// from domain errors without inspecting driver internals.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}
