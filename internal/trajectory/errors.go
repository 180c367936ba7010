package trajectory

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is the machine-readable error code sent to clients.
type Code string

const (
	CodeBadRequest       Code = "bad_request"
	CodeSimulationFailed Code = "simulation_failed"
	CodeInternal         Code = "internal_error"
	CodeNotFound         Code = "not_found"
	CodeUnauthorized     Code = "unauthorized"
)

// Error is a failure tagged with the response it should produce.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Status maps the code to an HTTP status.
func (e *Error) Status() int {
	switch e.Code {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeSimulationFailed:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Body is the JSON error envelope.
type Body struct {
	Error   Code   `json:"error"`
	Message string `json:"message"`
}

// Body returns the client-facing envelope. Internal errors never leak their
// cause.
func (e *Error) Body() Body {
	if e.Code == CodeInternal {
		return Body{Error: e.Code, Message: "internal server error"}
	}
	return Body{Error: e.Code, Message: e.Message}
}

func BadRequest(format string, args ...any) *Error {
	return &Error{Code: CodeBadRequest, Message: fmt.Sprintf(format, args...)}
}

func SimulationFailed(err error) *Error {
	return &Error{Code: CodeSimulationFailed, Message: err.Error(), Err: err}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func Internal(err error) *Error {
	return &Error{Code: CodeInternal, Message: "internal server error", Err: err}
}

// AsError classifies any error, treating unknown errors as internal.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}
