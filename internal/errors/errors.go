package errors

import (
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrInvalidQuantity        = errors.New("quantity must be at least 1")
	ErrItemNotFound           = errors.New("cart item not found")
	ErrEmptyCart              = errors.New("cart is empty")
	ErrInvalidTransition      = errors.New("invalid order status transition")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
	ErrDocumentNotFound       = errors.New("document not found")
)

// ValidationError carries per-field detail so the caller can correct input.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors lists every violated field, not just the first.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	messages := make([]string, 0, len(e))
	for _, v := range e {
		messages = append(messages, v.Error())
	}
	return "validation failed: " + strings.Join(messages, "; ")
}

func AsValidationErrors(err error) (ValidationErrors, bool) {
	validationErrors := ValidationErrors{}
	ok := errors.As(err, &validationErrors)
	return validationErrors, ok
}

func HandleError(err error, span trace.Span) {
	if err == nil {
		return
	}
	span.AddEvent(err.Error())
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)
}
