// Package errors provides structured error types for cmsstyle.
//
// The style layer never panics and never aborts a plot: every problem is
// logged as a diagnostic and the operation carries on with a default. The
// same problem is also returned to the caller as an *Error so that code
// which wants stricter handling can opt into it.
//
// # Error Codes
//
// Codes follow the diagnostic taxonomy of the library:
//   - configuration problems (UNSUPPORTED_ENERGY, LOGO_NOT_FOUND, STYLE_NOT_SET,
//     STATS_MISSING, NOT_A_CANVAS, INVALID_POSITION)
//   - unsupported inputs (UNSUPPORTED_OBJECT)
//   - request validation for the CLI and preview server (INVALID_*)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnsupportedEnergy, "energy %g is not recognized", e)
//	if errors.Is(err, errors.ErrCodeUnsupportedEnergy) {
//	    // fall back
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Configuration errors
	ErrCodeUnsupportedEnergy Code = "UNSUPPORTED_ENERGY"
	ErrCodeLogoNotFound      Code = "LOGO_NOT_FOUND"
	ErrCodeStyleNotSet       Code = "STYLE_NOT_SET"
	ErrCodeStatsMissing      Code = "STATS_MISSING"
	ErrCodeNotACanvas        Code = "NOT_A_CANVAS"
	ErrCodeInvalidPosition   Code = "INVALID_POSITION"

	// Unsupported-input errors
	ErrCodeUnsupportedObject Code = "UNSUPPORTED_OBJECT"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidColor  Code = "INVALID_COLOR"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

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

// Is reports whether err, or any error joined into it, has the given code.
func Is(err error, code Code) bool {
	if err == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) && e.Code == code {
		return true
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, inner := range joined.Unwrap() {
			if Is(inner, code) {
				return true
			}
		}
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

// Join combines several errors; nil entries are dropped.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
