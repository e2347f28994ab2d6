package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError is what usecases return to handlers: a status and a user-facing message.
// Err keeps the underlying cause for logs and is never rendered in production.
type HTTPError struct {
	Status  int
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d: %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

func ErrUnauthenticated(msg string) error {
	return NewHTTPError(http.StatusUnauthorized, msg)
}

func ErrForbidden(msg string) error {
	return NewHTTPError(http.StatusForbidden, msg)
}

func ErrNotFound(msg string) error {
	return NewHTTPError(http.StatusNotFound, msg)
}

func ErrValidation(msg string) error {
	return NewHTTPError(http.StatusBadRequest, msg)
}

func ErrConflict(msg string) error {
	return NewHTTPError(http.StatusConflict, msg)
}

// ErrInternal hides cause behind a generic message.
func ErrInternal(cause error) error {
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Message: "Something went wrong!",
		Err:     cause,
	}
}
