package sessions

import (
	"errors"
	"net/http"
)

// Domain errors for session operations.
var (
	ErrNotFound    = errors.New("session not found")
	ErrDuplicate   = errors.New("session already exists")
	ErrInvalid     = errors.New("invalid session")
	ErrInvalidBody = errors.New("invalid request body")
)

// MapHTTPStatus maps session domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalid) || errors.Is(err, ErrInvalidBody) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
