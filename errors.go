package allure

import (
	"errors"
	"fmt"
)

// MisuseError represents a caller-misuse error: an event reported for a
// test that already ended, or a duplicate end-of-test signal. These are
// programming errors in the collaborator, reported rather than silently
// ignored.
type MisuseError struct {
	Err error
}

func (e *MisuseError) Error() string {
	return fmt.Sprintf("reporter misuse: %v", e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *MisuseError) Unwrap() error {
	return e.Err
}

// NewMisuseError creates a new MisuseError
func NewMisuseError(err error) *MisuseError {
	return &MisuseError{Err: err}
}

// IsMisuseError checks if the error is or wraps a MisuseError
func IsMisuseError(err error) bool {
	var misuseErr *MisuseError
	return err != nil && errors.As(err, &misuseErr)
}

// StorageError represents an I/O failure while persisting or loading
// report artifacts. Storage errors are recoverable at the run level: one
// failed write does not stop other tests' artifacts from being written.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %v", e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError creates a new StorageError
func NewStorageError(err error) *StorageError {
	return &StorageError{Err: err}
}

// IsStorageError checks if the error is or wraps a StorageError
func IsStorageError(err error) bool {
	var storageErr *StorageError
	return err != nil && errors.As(err, &storageErr)
}
