package store

import (
	"errors"
	"fmt"

	"github.com/rogersnm/todos/internal/id"
)

var (
	ErrNotFound           = errors.New("todo not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// NotFoundError is returned when an operation references an id that is not in
// the collection.
type NotFoundError struct {
	ID id.ID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Todo with ID %s not found", e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func notFound(todoID id.ID) error {
	return &NotFoundError{ID: todoID}
}

// StorageError wraps a backend failure. It matches both ErrStorageUnavailable
// and the underlying cause under errors.Is.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrStorageUnavailable, e.Op)
	}
	return fmt.Sprintf("%s: %s: %v", ErrStorageUnavailable, e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrStorageUnavailable}
	}
	return []error{ErrStorageUnavailable, e.Err}
}

func unavailable(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// IsNotFound reports whether err is a NotFound failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnavailable reports whether err is a StorageUnavailable failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}
