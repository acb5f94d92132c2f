// Package errors provides domain errors that describe what went wrong in business terms.
// Use cases return these sentinels (usually wrapped with context) and HTTP handlers map
// them to status codes, so transport details never leak into the domain.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors shared by every module.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data (e.g., duplicate key).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the request lacks valid authentication credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the caller is authenticated but not allowed to proceed.
	ErrForbidden = errors.New("forbidden")

	// ErrLocked indicates the resource is temporarily locked (e.g., account lockout).
	ErrLocked = errors.New("locked")

	// ErrUnavailable indicates a dependency could not be reached and the call may be retried.
	ErrUnavailable = errors.New("service unavailable")

	// ErrInternal indicates a server-side misconfiguration that retrying will not fix.
	ErrInternal = errors.New("internal error")
)

// New creates a new error with the given message.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is like Wrap but formats the context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// CodedError is a domain error with a stable machine-readable code. Kind is one of the
// standard sentinels above and decides how transports classify it.
type CodedError struct {
	Kind    error
	Code    string
	Message string
}

// NewCoded creates a CodedError classified as kind.
func NewCoded(kind error, code, message string) *CodedError {
	return &CodedError{Kind: kind, Code: code, Message: message}
}

func (e *CodedError) Error() string {
	return e.Message
}

// Unwrap exposes Kind so Is(err, ErrUnauthorized) and friends match.
func (e *CodedError) Unwrap() error {
	return e.Kind
}
