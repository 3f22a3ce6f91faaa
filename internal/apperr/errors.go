// Package apperr holds the error kinds shared by the auth, repository and
// service layers. Handlers map each kind to an HTTP status with errors.Is;
// anything that is none of these kinds is treated as an internal failure.
package apperr

import "errors"

var (
	ErrUnauthenticated = errors.New("invalid authentication")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrValidation      = errors.New("validation failed")
)

// Error is a kind plus a caller-facing message.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// New returns an error that reports msg and matches kind under errors.Is.
func New(kind error, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

func Forbidden(msg string) error { return New(ErrForbidden, msg) }

func NotFound(msg string) error { return New(ErrNotFound, msg) }

func Conflict(msg string) error { return New(ErrConflict, msg) }

func Validation(msg string) error { return New(ErrValidation, msg) }
