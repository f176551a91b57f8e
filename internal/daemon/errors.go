package daemon

import (
	"errors"
	"net/http"

	"cutlist/internal/services"
)

// statusFor maps a services marker to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, services.ErrValidation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
