package http

import (
	"errors"
	"net/http"

	inErrors "github.com/printforge/storefront/internal/errors"
)

// ErrorStatusCode maps the domain error taxonomy onto HTTP statuses.
func ErrorStatusCode(err error) int {
	validationErrors := inErrors.ValidationErrors{}
	switch {
	case errors.As(err, &validationErrors),
		errors.Is(err, inErrors.ErrInvalidQuantity),
		errors.Is(err, inErrors.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, inErrors.ErrItemNotFound),
		errors.Is(err, inErrors.ErrDocumentNotFound):
		return http.StatusNotFound
	case errors.Is(err, inErrors.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, inErrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, inErrors.ErrPersistenceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
