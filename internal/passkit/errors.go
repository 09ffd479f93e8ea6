package passkit

// errors.go defines the error taxonomy used across the pass distribution
// engine and mapped to HTTP responses in internal/webservice.

import (
	"errors"
	"fmt"
)

// Error is a structured error carrying a distribution-engine error code.
type Error struct {
	code    ErrorCode
	message string
	wrapped error
}

func (e *Error) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrapped)
	}
	return e.message
}

func (e *Error) Code() ErrorCode { return e.code }
func (e *Error) Unwrap() error   { return e.wrapped }

// ErrorCode classifies a failure.
type ErrorCode int

const (
	// ErrCodeUnauthorized covers every authorization failure on a protected
	// operation: unknown serial, wrong pass type, wrong credential. All
	// three produce the same code so responses cannot be used to enumerate
	// serials.
	ErrCodeUnauthorized ErrorCode = iota + 1

	// ErrCodeNotFound is used when a precondition unrelated to
	// authorization fails, e.g. the bundle object is missing behind a valid
	// credential.
	ErrCodeNotFound

	// ErrCodeValidation is used for malformed or missing request fields.
	// Client fault, never retried.
	ErrCodeValidation

	// ErrCodeDependency is used when a store, the blob store or the signing
	// gateway fails. Retryable by the caller.
	ErrCodeDependency

	// ErrCodeDispatch is used for a failed push hint to a single device.
	// Isolated and logged, never escalated to fail an update.
	ErrCodeDispatch

	// ErrCodeInternal is used for unexpected failures.
	ErrCodeInternal
)

// ErrUnregisteredDevice reports that a push address is permanently invalid
// (the device uninstalled the pass). Dispatchers wrap it so the update
// coordinator can drop the registration.
var ErrUnregisteredDevice = errors.New("push address no longer registered")

// NewUnauthorizedError creates an authorization failure. The message is
// logged server-side only; clients always receive the same opaque response.
func NewUnauthorizedError(msg string) error {
	return &Error{code: ErrCodeUnauthorized, message: msg}
}

// NewNotFoundError creates a not-found error.
func NewNotFoundError(msg string) error {
	return &Error{code: ErrCodeNotFound, message: msg}
}

// NewValidationError creates a validation error for malformed input.
func NewValidationError(msg string) error {
	return &Error{code: ErrCodeValidation, message: msg}
}

// WrapValidationError wraps an existing error as a validation error.
func WrapValidationError(err error, msg string) error {
	return &Error{code: ErrCodeValidation, message: msg, wrapped: err}
}

// NewDependencyError creates an error for a failed external collaborator.
func NewDependencyError(msg string) error {
	return &Error{code: ErrCodeDependency, message: msg}
}

// WrapDependencyError wraps a store/blob/signing failure.
func WrapDependencyError(err error, msg string) error {
	return &Error{code: ErrCodeDependency, message: msg, wrapped: err}
}

// WrapDispatchError wraps a per-device push failure.
func WrapDispatchError(err error, msg string) error {
	return &Error{code: ErrCodeDispatch, message: msg, wrapped: err}
}

// NewInternalError creates an internal error for unexpected failures.
func NewInternalError(msg string) error {
	return &Error{code: ErrCodeInternal, message: msg}
}

// WrapInternalError wraps an unexpected failure.
func WrapInternalError(err error, msg string) error {
	return &Error{code: ErrCodeInternal, message: msg, wrapped: err}
}

// CodeOf extracts the ErrorCode from err, or ErrCodeInternal when err is
// not a passkit error.
func CodeOf(err error) ErrorCode {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code()
	}
	return ErrCodeInternal
}
