// Package errors provides structured error types for polybuild.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the pipeline and the CLI
//   - Machine-readable error codes and a JSON serialization for operators
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes follow the build stage that produced them:
//   - INVALID_*: config, license, source or input validation failures
//   - PARSE_ERROR / MINIFY_ERROR: JavaScript syntax and minification failures
//   - DEPENDENCY_CYCLE / MISSING_DEPENDENCY: dependency graph violations
//   - IO_ERROR: filesystem failures
//   - INTERNAL_ERROR: unexpected internal errors
//
// Every error is terminal for a build run; there is no retry policy.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidLicense, "license %q is not OSI approved", id)
//	if errors.Is(err, errors.ErrCodeInvalidLicense) {
//	    // Handle license error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "write %s", path)
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Feature validation errors
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeInvalidLicense Code = "INVALID_LICENSE"
	ErrCodeInvalidSource  Code = "INVALID_SOURCE"
	ErrCodeInvalidInput   Code = "INVALID_INPUT"

	// JavaScript processing errors
	ErrCodeParse  Code = "PARSE_ERROR"
	ErrCodeMinify Code = "MINIFY_ERROR"

	// Dependency graph errors
	ErrCodeDependencyCycle   Code = "DEPENDENCY_CYCLE"
	ErrCodeMissingDependency Code = "MISSING_DEPENDENCY"

	// Filesystem errors
	ErrCodeIO Code = "IO_ERROR"

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

// MarshalJSON serializes the error for machine consumption.
// Nested *Error causes are serialized as objects, other causes as strings.
func (e *Error) MarshalJSON() ([]byte, error) {
	out := struct {
		Code    Code   `json:"code"`
		Message string `json:"message"`
		Cause   any    `json:"cause,omitempty"`
	}{Code: e.Code, Message: e.Message}

	var inner *Error
	switch {
	case e.Cause == nil:
	case errors.As(e.Cause, &inner):
		out.Cause = inner
	default:
		out.Cause = e.Cause.Error()
	}
	return json.Marshal(out)
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

// JSON returns the machine-readable serialization of err.
// Errors that are not *Error are reported with ErrCodeInternal.
func JSON(err error) string {
	if err == nil {
		return "null"
	}
	var e *Error
	if !errors.As(err, &e) {
		e = Wrap(ErrCodeInternal, err, "unexpected error")
	}
	data, mErr := json.Marshal(e)
	if mErr != nil {
		return fmt.Sprintf(`{"code":%q,"message":%q}`, ErrCodeInternal, err.Error())
	}
	return string(data)
}
