// Package errors provides structured error types for the chainring application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, TUI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages for readouts
//
// # Error Codes
//
// Error codes group failures by who has to act on them:
//   - PARSE_ERROR, INVALID_*: malformed or out-of-range input at the boundary
//   - INFEASIBLE_GEOMETRY: the ring cannot exist for these parameters
//   - NO_CONVERGENCE, NOT_CLOSED: the solver could not verify its result
//   - NOT_FOUND: unknown HTTP API route
//   - INTERNAL_ERROR: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeParse, "radius: %q is not a number", text)
//	if errors.Is(err, errors.ErrCodeParse) {
//	    // keep the last known-good value
//	}
//
//	// Wrap solver errors
//	err := errors.Wrap(errors.ErrCodeInfeasible, solveErr, "resolve ring")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Boundary errors
	ErrCodeParse        Code = "PARSE_ERROR"
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidDrive Code = "INVALID_DRIVE"
	ErrCodeInvalidPath  Code = "INVALID_PATH"

	// Geometry outcomes
	ErrCodeInfeasible  Code = "INFEASIBLE_GEOMETRY"
	ErrCodeConvergence Code = "NO_CONVERGENCE"
	ErrCodeNotClosed   Code = "NOT_CLOSED"

	// Unknown API route
	ErrCodeNotFound Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message and cause without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// IsBoundary reports whether err is an input error that the boundary layer
// recovers from locally.
func IsBoundary(err error) bool {
	switch GetCode(err) {
	case ErrCodeParse, ErrCodeInvalidInput, ErrCodeInvalidDrive, ErrCodeInvalidPath:
		return true
	}
	return false
}
