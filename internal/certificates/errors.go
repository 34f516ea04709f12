package certificates

import (
	"errors"
	"net/http"
)

// Domain errors for certificate operations.
var (
	ErrUnreadable    = errors.New("certificate source is not a readable spreadsheet")
	ErrNoSource      = errors.New("no certificate source loaded")
	ErrFileTooLarge  = errors.New("file exceeds maximum upload size")
	ErrInvalidFile   = errors.New("invalid file")
	ErrInvalidFilter = errors.New("invalid filter")
)

// MapHTTPStatus maps certificate domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrUnreadable) {
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, ErrNoSource) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrFileTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, ErrInvalidFile) || errors.Is(err, ErrInvalidFilter) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
