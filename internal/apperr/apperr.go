// Package apperr defines the error taxonomy shared by services and transports.
// Every business-rule rejection carries a stable Code so callers can branch
// without matching message text.
package apperr

import (
	"errors"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeInternal           Code = "INTERNAL"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeNotFound           Code = "NOT_FOUND"
	CodeForbidden          Code = "FORBIDDEN"
	CodeUnauthenticated    Code = "UNAUTHENTICATED"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodeCenterNotEmpty     Code = "CENTER_NOT_EMPTY"

	// Booking
	CodeSubjectMismatch  Code = "SUBJECT_MISMATCH"
	CodeSlotUnavailable  Code = "SLOT_UNAVAILABLE"
	CodeDuplicateBooking Code = "DUPLICATE_BOOKING"

	// Attendance & rating
	CodeInvalidValue Code = "INVALID_VALUE"
	CodeInvalidScore Code = "INVALID_SCORE"
	CodeNotCompleted Code = "NOT_COMPLETED"
	CodeAlreadyRated Code = "ALREADY_RATED"
)

// HTTPStatus maps a code onto the status the HTTP surface answers with.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeInvalidArgument, CodeInvalidValue, CodeInvalidScore:
		return http.StatusBadRequest
	case CodeUnauthenticated, CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists, CodeSlotUnavailable, CodeDuplicateBooking, CodeAlreadyRated, CodeCenterNotEmpty:
		return http.StatusConflict
	case CodeSubjectMismatch, CodeNotCompleted:
		return http.StatusUnprocessableEntity
	case CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a stable code and a human-readable message.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a domain error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the code from any error. Errors without one are internal.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// Message returns the user-facing message. Internal errors never leak their cause.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Code != CodeInternal {
		return e.Message
	}
	return "internal error"
}
