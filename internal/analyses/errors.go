package analyses

import (
	"errors"
	"net/http"
)

// Domain errors for analysis operations.
var (
	ErrNotFound          = errors.New("analysis not found")
	ErrDetectionNotFound = errors.New("detection not found")
	ErrDuplicate         = errors.New("analysis already exists")
	ErrAlreadyValidated  = errors.New("detection already validated")
	ErrMissingValidator  = errors.New("validated_by is required")
)

var (
	errInvalidID      = errors.New("invalid id")
	errInvalidHorizon = errors.New("within_days must be a positive integer")
)

// MapHTTPStatus maps analysis domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDetectionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrAlreadyValidated):
		return http.StatusConflict
	case errors.Is(err, ErrMissingValidator):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
