// Package errors provides structured error types for the diagramc compiler.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the compilation pipeline
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Compilation errors are fatal for the diagram being compiled: no partial
// geometry is ever produced once one is raised. Non-fatal conditions
// (overflow, unused expansion) travel as warnings on the pipeline result
// instead of errors.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnresolvedTemplate, "use of undefined template %q", name)
//	if errors.Is(err, errors.ErrCodeUnresolvedTemplate) {
//	    // Handle the missing template
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidInput, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Document model errors (malformed node, duplicate id)
	ErrCodeStructural Code = "STRUCTURAL"

	// Template registry errors
	ErrCodeDuplicateTemplate  Code = "DUPLICATE_TEMPLATE"
	ErrCodeUnresolvedTemplate Code = "UNRESOLVED_TEMPLATE"
	ErrCodeTemplateCycle      Code = "TEMPLATE_CYCLE"

	// Style cascade errors
	ErrCodeUnresolvedStyle Code = "UNRESOLVED_STYLE"

	// Layout errors
	ErrCodeOverconstrainedLayout Code = "OVERCONSTRAINED_LAYOUT"

	// Output adapter errors
	ErrCodeUnsupportedPrimitive Code = "UNSUPPORTED_PRIMITIVE"

	// CLI / I-O surface errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

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
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
