// Package domainerrors carries typed failures from services to their callers.
//
// Services return *Error values so transports (HTTP, console) can render a
// message and pick a status without string matching. Stores never return
// these directly; they return wrapped I/O errors which services turn into
// CodePersistenceFailure.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain failure.
type Code string

const (
	// CodeInvalidFormat marks a malformed input field (ID, phone, capacity, date).
	CodeInvalidFormat Code = "invalid_format"
	// CodeIneligibleAge marks a citizen below the minimum eligible age.
	CodeIneligibleAge Code = "ineligible_age"
	// CodeDuplicateEntity marks a create on an identity key that already exists.
	CodeDuplicateEntity Code = "duplicate_entity"
	// CodeNotFound marks a missing citizen, center or appointment reference.
	CodeNotFound Code = "not_found"
	// CodeIneligibleTransition marks a second dose booked before the first is completed.
	CodeIneligibleTransition Code = "ineligible_transition"
	// CodeCapacityExceeded marks a booking on a fully allocated (center, date) slot.
	CodeCapacityExceeded Code = "capacity_exceeded"
	// CodePersistenceFailure marks an I/O failure while saving or loading a collection.
	CodePersistenceFailure Code = "persistence_failure"

	CodeBadRequest Code = "bad_request"
	CodeInternal   Code = "internal_error"
)

// Error is a coded domain failure with an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns a coded error without a cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf is New with a format string.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to err. A nil err yields nil.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf returns the code of the outermost *Error in err's chain, or
// CodeInternal when err carries no code.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HasCode reports whether the outermost *Error in err's chain has code.
func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is an alias of HasCode kept for call sites that read better as a predicate.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}
