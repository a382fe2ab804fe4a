package errdef

import (
	"errors"
	"fmt"
)

func NewForbidden(format string, a ...any) error {
	return forbidden{fmt.Errorf(format, a...)}
}

type forbidden struct{ error }

func (e forbidden) Unwrap() error { return e.error }

func IsForbidden(err error) bool {
	var e forbidden
	return errors.As(err, &e)
}

func NewBadRequest(format string, a ...any) error {
	return badRequest{error: fmt.Errorf(format, a...)}
}

// NewFieldBadRequest creates a bad request error caused by the request field named field.
func NewFieldBadRequest(field string, format string, a ...any) error {
	return badRequest{error: fmt.Errorf(format, a...), field: field}
}

type badRequest struct {
	error
	field string
}

func (e badRequest) Unwrap() error { return e.error }

func IsBadRequest(err error) bool {
	var e badRequest
	return errors.As(err, &e)
}

// Field returns the name of the request field a bad request error was raised for. The empty
// string is returned if err is not a bad request or isn't tied to a field.
func Field(err error) string {
	var e badRequest
	if errors.As(err, &e) {
		return e.field
	}
	return ""
}

func NewDuplicated(format string, a ...any) error {
	return duplicated{fmt.Errorf(format, a...)}
}

type duplicated struct{ error }

func (e duplicated) Unwrap() error { return e.error }

func IsDuplicated(err error) bool {
	var e duplicated
	return errors.As(err, &e)
}

func NewUnauthorized(format string, a ...any) error {
	return unauthorized{fmt.Errorf(format, a...)}
}

type unauthorized struct{ error }

func (e unauthorized) Unwrap() error { return e.error }

func IsUnauthorized(err error) bool {
	var e unauthorized
	return errors.As(err, &e)
}

// NewNotFound creates an error representing a resource that could not be found.
func NewNotFound(format string, a ...any) error {
	return notFound{fmt.Errorf(format, a...)}
}

type notFound struct{ error }

func (e notFound) Unwrap() error { return e.error }

// IsNotFound returns true if err is an error representing a resource that could not be found and false otherwise.
func IsNotFound(err error) bool {
	var e notFound
	return errors.As(err, &e)
}

// NewConflict creates an error representing a conflicting state.
func NewConflict(format string, a ...any) error {
	return conflict{fmt.Errorf(format, a...)}
}

type conflict struct{ error }

func (e conflict) Unwrap() error { return e.error }

// IsConflict returns true if err is an error representing a conflict and false otherwise.
func IsConflict(err error) bool {
	var e conflict
	return errors.As(err, &e)
}

func NewUnsupportedMediaType(format string, a ...any) error {
	return unsupportedMediaType{fmt.Errorf(format, a...)}
}

type unsupportedMediaType struct{ error }

func (e unsupportedMediaType) Unwrap() error { return e.error }

func IsUnsupportedMediaType(err error) bool {
	var e unsupportedMediaType
	return errors.As(err, &e)
}
