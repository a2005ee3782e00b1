package httpx

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an API failure. Each kind has exactly one HTTP status.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindNotFound
	KindUpstream
	KindRateLimited
)

// Status returns the HTTP status for k.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstream:
		return http.StatusBadGateway
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is the error type handlers return for expected failures.
// Code is an i18n key; it is translated once at the boundary.
type Error struct {
	Kind    Kind
	Code    string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.Err }

// BadRequest reports invalid input.
func BadRequest(code string) *Error { return &Error{Kind: KindValidation, Code: code} }

// Invalid reports invalid input with per-field details.
func Invalid(code string, details any) *Error {
	return &Error{Kind: KindValidation, Code: code, Details: details}
}

// Unauthorized reports a missing or unusable session.
func Unauthorized() *Error { return &Error{Kind: KindUnauthenticated, Code: "unauthorized"} }

// NotFound reports an absent resource. Foreign resources use it too.
func NotFound(code string) *Error { return &Error{Kind: KindNotFound, Code: code} }

// Upstream reports a failure of a third-party service.
func Upstream(code string, err error) *Error {
	return &Error{Kind: KindUpstream, Code: code, Err: err}
}

// Internal wraps an unexpected error. Its cause is logged, never sent.
func Internal(err error) *Error { return &Error{Kind: KindInternal, Code: "internal_error", Err: err} }

// AsError returns the *Error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
