package contacts

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/certtrack/pkg/storage"
)

// Domain errors for contact log operations.
var (
	ErrSupplierRequired = errors.New("a specific supplier is required to log a contact")
	ErrInvalidEntry     = errors.New("invalid contact entry")
	ErrUnreadable       = errors.New("contact log source is not a readable spreadsheet")
	ErrPersist          = errors.New("contact log could not be persisted")
	ErrFileTooLarge     = errors.New("file exceeds maximum upload size")
)

// MapHTTPStatus maps contact domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrSupplierRequired) || errors.Is(err, ErrInvalidEntry) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrUnreadable) {
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, ErrFileTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, storage.ErrEmptyKey) || errors.Is(err, storage.ErrInvalidKey) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrPersist) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
