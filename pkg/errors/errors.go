// Package errors provides structured error types for flowgraph.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the local HTTP surface
//   - Machine-readable error codes for programmatic handling
//   - User-facing messages without code prefixes
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - NOT_FOUND: Resource not found
//   - NETWORK_*: Backend transport or server failures
//   - STRATEGY_FAILED: A traversal strategy reported an error
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidLabel, "label too long: %d", n)
//	if errors.Is(err, errors.ErrCodeInvalidLabel) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "fetch graph %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidLabel   Code = "INVALID_LABEL"
	ErrCodeInvalidColor   Code = "INVALID_COLOR"
	ErrCodeInvalidGraphID Code = "INVALID_GRAPH_ID"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// Backend errors
	ErrCodeNetwork        Code = "NETWORK_ERROR"
	ErrCodeStrategyFailed Code = "STRATEGY_FAILED"

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

// Strategy creates an ErrCodeStrategyFailed error carrying the backend's
// message verbatim so UserMessage returns it unchanged.
func Strategy(message string) *Error {
	return &Error{Code: ErrCodeStrategyFailed, Message: message}
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

// UserMessage returns the error text without code prefixes. A wrapped
// cause is appended after a colon, itself without prefixes.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	switch {
	case e.Cause == nil:
		return e.Message
	case e.Message == "":
		return UserMessage(e.Cause)
	}
	return e.Message + ": " + UserMessage(e.Cause)
}
