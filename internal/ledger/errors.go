package ledger

import (
	"errors"
	"net/http"
)

// Domain errors for ledger operations.
var (
	ErrSessionNotFound = errors.New("session not found in store")
	ErrRowNotFound     = errors.New("session not found in sheet")
	ErrNoReviewColumns = errors.New("sheet has no review columns")
	ErrNotConfigured   = errors.New("ledger sheet not configured")
)

// MapHTTPStatus maps ledger domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrRowNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrNoReviewColumns):
		return http.StatusConflict
	}
	return http.StatusBadGateway
}
