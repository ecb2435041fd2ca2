package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the HTTP layer can pick a status code.
type Kind string

const (
	KindBadRequest   Kind = "bad_request"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindService      Kind = "service_error"
	KindInternal     Kind = "internal"
)

// AppError is the error type returned by services. Message is safe to show to
// the end user; Err holds the underlying cause for logs only.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
	Details map[string]string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped cause for errors.Is/As support.
func (e *AppError) Unwrap() error { return e.Err }

// WithDetails attaches per-field messages, used for validation failures.
func (e *AppError) WithDetails(details map[string]string) *AppError {
	e.Details = details
	return e
}

func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func Wrap(err error, kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func BadRequest(message string) *AppError   { return New(KindBadRequest, message) }
func Unauthorized(message string) *AppError { return New(KindUnauthorized, message) }
func Forbidden(message string) *AppError    { return New(KindForbidden, message) }
func NotFound(message string) *AppError     { return New(KindNotFound, message) }
func Conflict(message string) *AppError     { return New(KindConflict, message) }

// Service wraps a downstream collaborator failure such as the mail transport.
func Service(err error, message string) *AppError { return Wrap(err, KindService, message) }

// Internal wraps unexpected failures (storage, hashing, signing).
func Internal(err error) *AppError {
	return Wrap(err, KindInternal, "Something went wrong, please try again.")
}

// KindOf returns the kind of err, or KindInternal when err is not an AppError.
func KindOf(err error) Kind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// Is reports whether err is an AppError of the given kind.
func Is(err error, kind Kind) bool {
	var ae *AppError
	return errors.As(err, &ae) && ae.Kind == kind
}
