package apierr

import (
	"fmt"
	"net/http"
)

const (
	CodeNotFound   = "not_found"
	CodeConflict   = "conflict"
	CodeValidation = "validation_error"
	CodeInternal   = "internal_error"
)

// Error is a client-visible failure. Handlers translate it into the
// structured error envelope; anything that is not an *Error becomes a
// generic 500.
type Error struct {
	Status  int
	Code    string
	Err     error
	Details any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func NotFound(format string, args ...any) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Errorf(format, args...))
}

func Conflict(format string, args ...any) *Error {
	return New(http.StatusConflict, CodeConflict, fmt.Errorf(format, args...))
}

func Validation(err error, details any) *Error {
	return &Error{Status: http.StatusUnprocessableEntity, Code: CodeValidation, Err: err, Details: details}
}
