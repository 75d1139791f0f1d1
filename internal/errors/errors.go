package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors
const (
	ErrConfig  = "CONFIG"
	ErrAPI     = "API"
	ErrData    = "DATA"
	ErrRender  = "RENDER"
	ErrStorage = "STORAGE"
)

// Error is a user-facing error with a code, what failed, and how to fix it.
// Rendered as:
//
//	✗ <What failed>
//
//	  <Why it failed>
//
//	  <How to fix it>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a structured error without an underlying cause.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// WrapWithCode wraps err with a code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var zErr *Error
	if errors.As(err, &zErr) {
		return zErr.Code == code
	}
	return false
}

// Summary returns the one-line message of a structured error, or err.Error()
// for anything else. Used where the multi-line form does not fit, such as a
// single log line.
func Summary(err error) string {
	if err == nil {
		return ""
	}
	var zErr *Error
	if errors.As(err, &zErr) {
		if zErr.Cause != nil {
			return zErr.Message + ": " + zErr.Cause.Error()
		}
		return zErr.Message
	}
	return err.Error()
}
