// Package errors provides structured error types for boxlayout.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (malformed trees, bad padding)
//   - MISSING_*, OVERFLOW, DUPLICATE_*: Layout resolution failures
//   - NOT_FOUND_*: Resource not found
//   - INTERNAL_*: Unexpected internal errors
//
// Any error type that exposes a Code() method participates in [Is] and
// [GetCode], so packages can keep their own typed errors (with exact
// messages) while still carrying a code.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "root width must be a number, got %v", v)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeInvalidStyle      Code = "INVALID_STYLE"
	ErrCodeInvalidPath       Code = "INVALID_PATH"
	ErrCodeInvalidPadding    Code = "INVALID_PADDING"
	ErrCodeInvalidPercentage Code = "INVALID_PERCENTAGE"

	// Layout resolution errors
	ErrCodeMissingDirection Code = "MISSING_DIRECTION"
	ErrCodeOverflow         Code = "OVERFLOW"
	ErrCodeDuplicateID      Code = "DUPLICATE_ID"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// validationCodes are the codes caused by bad caller input.
var validationCodes = map[Code]bool{
	ErrCodeInvalidInput:      true,
	ErrCodeInvalidFormat:     true,
	ErrCodeInvalidStyle:      true,
	ErrCodeInvalidPath:       true,
	ErrCodeInvalidPadding:    true,
	ErrCodeInvalidPercentage: true,
	ErrCodeMissingDirection:  true,
	ErrCodeOverflow:          true,
	ErrCodeDuplicateID:       true,
}

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

// coder is implemented by typed errors from other packages that carry a code.
type coder interface {
	error
	Code() Code
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code,
// or any error exposing a matching Code() method.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// The outermost coded error in the chain wins.
// Returns empty string if no error in the chain carries a code.
func GetCode(err error) Code {
	for err != nil {
		switch e := err.(type) {
		case *Error:
			return e.Code
		case coder:
			return e.Code()
		}
		err = errors.Unwrap(err)
	}
	return ""
}

// UserMessage renders err without code prefixes: the message of each
// *Error in the chain joined with its cause, e.g.
// "config file x.toml: toml: line 1: expected '.' or ']'".
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	prefix := ""
	if outer := err.Error(); outer != e.Error() && strings.HasSuffix(outer, e.Error()) {
		// fmt.Errorf context above the *Error, e.g. "write out.svg: ".
		prefix = strings.TrimSuffix(outer, e.Error())
	}
	if e.Cause == nil {
		return prefix + e.Message
	}
	return prefix + e.Message + ": " + UserMessage(e.Cause)
}

// IsValidation reports whether err carries a code caused by invalid input,
// as opposed to an internal failure.
func IsValidation(err error) bool {
	return validationCodes[GetCode(err)]
}
