// Package neobrewerr provides the structured error taxonomy shared by the
// registry and pipeline packages.
//
// Every error raised by core resolution or streaming code is a *Error with
// one of the Code values below. Callers that need to branch on failure kind
// use Is or GetCode rather than string-matching Error().
package neobrewerr

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error category.
type Code string

const (
	// NotFound means a named formula or cask does not exist in either
	// catalog under the requested resolution strategy.
	NotFound Code = "NOT_FOUND"

	// CatalogError means a catalog request failed for a reason other than
	// the package not existing (network failure, bad status, bad body).
	CatalogError Code = "CATALOG_ERROR"

	// CircularDependency means resolving a formula's dependency tree
	// revisited a name already on the current resolution path.
	CircularDependency Code = "CIRCULAR_DEPENDENCY"

	// CacheIoError means reading or writing the on-disk JSON cache failed.
	CacheIoError Code = "CACHE_IO_ERROR"

	// StreamError means reading the artifact's payload over HTTP failed
	// partway through a pipeline run.
	StreamError Code = "STREAM_ERROR"

	// OperatorError means a pipeline operator's Feed or Flush returned an
	// error.
	OperatorError Code = "OPERATOR_ERROR"

	// Cancelled means the operation stopped because its context was
	// cancelled, including SIGINT.
	Cancelled Code = "CANCELLED"

	// InvalidName means a requested formula or cask name failed basic
	// safety validation before any catalog request was made.
	InvalidName Code = "INVALID_NAME"
)

// Error is a structured error carrying a Code and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost *Error in err's chain carries the
// given code; codes of *Error values it wraps are not consulted.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from err, or "" if err is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message a CLI should show a human: no code
// prefix, no wrapped-cause chain.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// NotFoundMessage builds the exact user-visible wording for a name that
// could not be resolved as either a formula or a cask under strategy Both.
func NotFoundMessage(name string) string {
	return fmt.Sprintf("Formula or cask %q not found.", name)
}

// CycleMessage builds the exact user-visible wording for a detected
// circular formula dependency, given the path including the repeated name
// at both ends (e.g. []string{"a", "b", "a"}).
func CycleMessage(path []string) string {
	msg := "Circular formula dependency detected: "
	for i, name := range path {
		if i > 0 {
			msg += " -> "
		}
		msg += fmt.Sprintf("%q", name)
	}
	return msg
}
