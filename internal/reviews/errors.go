package reviews

import (
	"errors"
	"net/http"
)

// Domain errors for review operations.
var (
	ErrNotFound        = errors.New("review not found")
	ErrDuplicate       = errors.New("review already exists")
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalid         = errors.New("invalid review")
)

// MapHTTPStatus maps review domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalid):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
