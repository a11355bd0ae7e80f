// Package errors provides structured error types for hsmviz.
//
// This package defines error codes and types that enable:
//   - Consistent error handling between the CLI and the analysis pipeline
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input or configuration validation failures
//   - *_NOT_FOUND: Missing files
//   - PARSE_FAILED: The program-fact provider could not parse an input
//   - UNCLASSIFIABLE_TRANSITION: A transition factory name matched no rule
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUsage, "select at least one of --map or --dot")
//	if errors.Is(err, errors.ErrCodeUsage) {
//	    // print usage
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeParseFailed, origErr, "parse %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Usage and validation errors
	ErrCodeUsage         Code = "USAGE"
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Analysis errors
	ErrCodeParseFailed    Code = "PARSE_FAILED"
	ErrCodeUnclassifiable Code = "UNCLASSIFIABLE_TRANSITION"

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
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Message, UserMessage(e.Cause))
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
// For *Error types, returns the message without code prefixes, including
// those of wrapped *Error causes. For other errors, returns the error
// string as-is.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause != nil {
		return e.Message + ": " + UserMessage(e.Cause)
	}
	return e.Message
}

// UnclassifiableError reports a transition factory whose name matched none of
// the classifier rules. The factory set is assumed closed, so this aborts the run.
type UnclassifiableError struct {
	Name string // offending factory function name
}

// Error implements the error interface.
func (e *UnclassifiableError) Error() string {
	return fmt.Sprintf("unclassifiable transition factory %q", e.Name)
}

// Code returns the error code for this error type.
func (e *UnclassifiableError) Code() Code {
	return ErrCodeUnclassifiable
}

// Unclassifiable returns a coded error for the given factory name.
// The result matches both Is(err, ErrCodeUnclassifiable) and errors.As with
// *UnclassifiableError.
func Unclassifiable(name string) *Error {
	cause := &UnclassifiableError{Name: name}
	return &Error{
		Code:    ErrCodeUnclassifiable,
		Message: "classify transition",
		Cause:   cause,
	}
}
