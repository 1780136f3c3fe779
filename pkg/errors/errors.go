// Package errors provides structured error types for fswrangler.
//
// Error codes make load and save failures distinguishable to the
// presentation layer, which decides whether to retry, prompt, or abort.
// The codes cover the manifest I/O taxonomy:
//   - INVALID_*: malformed input (manifest XML, status values, paths)
//   - *_NOT_FOUND: missing resources
//   - BACKUP_FAILED / WRITE_FAILED: save-path failures
//
// Usage:
//
//	err := errors.Wrap(errors.ErrCodeInvalidManifest, cause, "parse %s", path)
//	if errors.Is(err, errors.ErrCodeInvalidManifest) {
//	    // surface an actionable parse message
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the manifest I/O taxonomy.
const (
	// Input validation errors
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"
	ErrCodeInvalidStatus   Code = "INVALID_STATUS"
	ErrCodeInvalidPath     Code = "INVALID_PATH"
	ErrCodeInvalidInput    Code = "INVALID_INPUT"

	// Resource not found errors
	ErrCodeManifestNotFound Code = "MANIFEST_NOT_FOUND"
	ErrCodeFileNotFound     Code = "FILE_NOT_FOUND"

	// Save-path failures
	ErrCodeBackupFailed Code = "BACKUP_FAILED"
	ErrCodeWriteFailed  Code = "WRITE_FAILED"

	// Recoverable configuration degradation
	ErrCodeConfig Code = "CONFIG_ERROR"

	// Unexpected internal errors
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
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
