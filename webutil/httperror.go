package webutil

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	msgBadRequest     = "Bad Request"
	msgNotFound       = "Resource not found"
	msgInternalServer = "Internal Server Error"
	msgUnauthorized   = "Unauthorized"
	msgForbidden      = "Forbidden"
	msgConflict       = "Conflict"
)

// HTTPError carries an HTTP status code and a user-facing message
// alongside the underlying cause.
type HTTPError struct {
	cause   error
	Code    int
	Message string
}

// Error returns the user-facing message.
func (he HTTPError) Error() string {
	return he.Message
}

func (he HTTPError) Unwrap() error {
	return he.cause
}

func newHTTPError(code int, message, fallback string) *HTTPError {
	if message == "" {
		message = fallback
	}
	return &HTTPError{
		cause:   errors.New(message),
		Code:    code,
		Message: message,
	}
}

func ErrBadRequest(message string) *HTTPError {
	return newHTTPError(http.StatusBadRequest, message, msgBadRequest)
}

func ErrNotFound(message string) *HTTPError {
	return newHTTPError(http.StatusNotFound, message, msgNotFound)
}

func ErrUnauthorized(message string) *HTTPError {
	return newHTTPError(http.StatusUnauthorized, message, msgUnauthorized)
}

func ErrForbidden(message string) *HTTPError {
	return newHTTPError(http.StatusForbidden, message, msgForbidden)
}

func ErrConflict(message string) *HTTPError {
	return newHTTPError(http.StatusConflict, message, msgConflict)
}

// ErrInternalServerWrap keeps the cause for logging while the client
// only ever sees the generic 500 message.
func ErrInternalServerWrap(message string, cause error) *HTTPError {
	return &HTTPError{
		cause:   fmt.Errorf("%s: %w", message, cause),
		Code:    http.StatusInternalServerError,
		Message: msgInternalServer,
	}
}
