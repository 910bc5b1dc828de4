package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a domain error so handlers can map it to a response and
// callers can decide whether to retry.
type Kind int

const (
	// Validation — malformed input; nothing was mutated or persisted.
	Validation Kind = iota
	// Invariant — the action is blocked by the entity's current state.
	Invariant
	// NotFound — the referenced entity/file is absent from the snapshot.
	NotFound
	// Conflict — a version check failed; the caller read a stale aggregate.
	Conflict
	// Storage — persistence or blob collaborator failure; retryable.
	Storage
)

// Error is a typed application error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is makes errors.Is match on Kind against the package sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Message == ""
}

// Sentinels for errors.Is checks.
var (
	ErrValidation = &Error{Kind: Validation}
	ErrInvariant  = &Error{Kind: Invariant}
	ErrNotFound   = &Error{Kind: NotFound}
	ErrConflict   = &Error{Kind: Conflict}
	ErrStorage    = &Error{Kind: Storage}
)

// New builds an error of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an error of the given kind around an underlying cause.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// Validationf is shorthand for New(Validation, ...).
func Validationf(format string, args ...interface{}) *Error {
	return New(Validation, format, args...)
}

// Invariantf is shorthand for New(Invariant, ...).
func Invariantf(format string, args ...interface{}) *Error {
	return New(Invariant, format, args...)
}

// NotFoundf is shorthand for New(NotFound, ...).
func NotFoundf(format string, args ...interface{}) *Error {
	return New(NotFound, format, args...)
}

// HTTPStatus maps an error to the status code handlers should answer with.
func HTTPStatus(err error) int {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case Validation:
		return http.StatusBadRequest
	case Invariant:
		return http.StatusUnprocessableEntity
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Storage:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
