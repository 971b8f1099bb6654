// Package apperr defines the structured failure conditions that the HTTP
// layer turns into the uniform response envelope. These errors are expected,
// user-caused outcomes carried as control flow; anything that is not an
// *apperr.Error is treated as unclassified and reported as a 500.
package apperr

import "net/http"

// Error couples an HTTP status with a user-facing message. Details holds
// field-level validation detail and is only set for validation failures.
type Error struct {
	Status  int
	Message string
	Details any
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

// Validation reports invalid submitted data with per-field detail. The
// envelope carries the generic message; the detail lands in `errors`.
func Validation(fields map[string][]string) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Message: "submitted data is invalid",
		Details: fields,
	}
}

// Unauthenticated reports a missing or invalid authenticated actor.
func Unauthenticated() *Error {
	return &Error{Status: http.StatusUnauthorized, Message: "login required"}
}

// Forbidden reports an authorization denial with the specific reason.
func Forbidden(reason string) *Error {
	if reason == "" {
		reason = "not authorized"
	}
	return &Error{Status: http.StatusForbidden, Message: reason}
}

// NotFound reports a missing resource.
func NotFound(msg string) *Error {
	if msg == "" {
		msg = "resource not found"
	}
	return &Error{Status: http.StatusNotFound, Message: msg}
}

// BusinessRule reports a domain rule violation such as a quota limit or a
// missing parent reference. Status defaults to 400 when zero.
func BusinessRule(status int, reason string) *Error {
	if status == 0 {
		status = http.StatusBadRequest
	}
	return &Error{Status: status, Message: reason}
}

// Wrap attaches a cause to e and returns e for chaining.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}
