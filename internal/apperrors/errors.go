// Package apperrors defines application-level error types.
package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotPreopened is returned when a guest asks for a filename that was never
// granted as a preopen.
var ErrNotPreopened = errors.New("file is not available as a preopen")

// ClassificationError indicates an argument could not be classified.
// It is raised before any resource is opened.
type ClassificationError struct {
	Argument string // Offending argument as received
	Message  string // Why classification failed
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("cannot classify argument %q: %s", e.Argument, e.Message)
}

// NewClassificationError creates a new classification error.
func NewClassificationError(argument, message string) *ClassificationError {
	return &ClassificationError{
		Argument: argument,
		Message:  message,
	}
}

// OpenError indicates an argument was classified as a path but the underlying
// resource could not be opened with the requested access.
type OpenError struct {
	Cause    error
	Argument string // Path text from the argument
	Access   string // Access that was requested ("read", "write", ...)
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("cannot open %q for %s access: %v", e.Argument, e.Access, e.Cause)
}

func (e *OpenError) Unwrap() error {
	return e.Cause
}

// NewOpenError creates a new open error.
func NewOpenError(argument, access string, cause error) *OpenError {
	return &OpenError{
		Argument: argument,
		Access:   access,
		Cause:    cause,
	}
}

// AccessError indicates a guest attempted an operation that the preopen's
// granted access mode does not permit.
type AccessError struct {
	Name      string // Synthetic filename the guest used
	Requested string // Operation the guest attempted
	Granted   string // Access the preopen actually permits
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("preopen %q only permits %s access (requested %s)", e.Name, e.Granted, e.Requested)
}

// NewAccessError creates a new access error.
func NewAccessError(name, requested, granted string) *AccessError {
	return &AccessError{
		Name:      name,
		Requested: requested,
		Granted:   granted,
	}
}
