package apperror

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindUnauthorized Kind = "unauthorized"
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindBadRequest   Kind = "bad_request"
	KindInternal     Kind = "internal"
)

type AppError struct {
	Code    int         `json:"code"`
	Kind    Kind        `json:"kind"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Err     error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil && e.Kind == KindInternal {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code int, kind Kind, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, KindBadRequest, message, nil)
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, KindUnauthorized, message, nil)
}

// NotFound is reported as 400; existing clients of this API key off that status.
func NotFound(message string) *AppError {
	return New(http.StatusBadRequest, KindNotFound, message, nil)
}

// Validation carries the full, ordered list of rule violations in Details.
func Validation(violations interface{}) *AppError {
	e := New(http.StatusBadRequest, KindValidation, "Validation failed", nil)
	e.Details = violations
	return e
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, KindInternal, "Server Error", err)
}

// KindOf returns the kind of the first AppError in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
