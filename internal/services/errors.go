package services

import (
	"errors"

	"github.com/stwalsh4118/estatedesk/internal/ai"
	"github.com/stwalsh4118/estatedesk/internal/repository"
)

// Service-level errors
var (
	ErrNotFound     = repository.ErrNotFound
	ErrStorage      = repository.ErrPersist
	ErrInvalidInput = repository.ErrInvalidPatch

	ErrAINotConfigured = ai.ErrNotConfigured
	ErrAIUnavailable   = ai.ErrUnavailable

	ErrValidation         = errors.New("validation failed")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrInvalidRadius      = errors.New("radius must be between 1 and 5000 meters")
	ErrUnknownSetting     = errors.New("unknown setting")
	ErrInvalidBackup      = errors.New("invalid backup document")
)

// FieldError is a validation failure on one input field. Message is
// shown to the user as is.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *FieldError) Unwrap() error {
	return ErrValidation
}

func fieldError(field, message string) error {
	return &FieldError{Field: field, Message: message}
}
