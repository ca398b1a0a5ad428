// Package ai talks to the generative-AI service used for chat, ad copy,
// schedule suggestions and virtual staging.
package ai

import (
	"context"
	"errors"
)

var (
	// ErrNotConfigured means no usable API key is stored for the call.
	ErrNotConfigured = errors.New("ai key not configured")

	// ErrUnavailable means the service failed or returned an unusable answer.
	ErrUnavailable = errors.New("ai service unavailable")
)

// Schema is a JSON Schema document (draft-07 subset) describing a JSON
// response.
type Schema map[string]interface{}

// TextRequest asks for a text completion.
type TextRequest struct {
	APIKey            string
	Model             string
	Prompt            string
	SystemInstruction string
	Temperature       *float32

	// ResponseSchema, when set, requests a JSON answer and the answer is
	// validated against it.
	ResponseSchema Schema
}

// ImageRequest asks for an edited version of an image.
type ImageRequest struct {
	APIKey   string
	Model    string
	Image    []byte
	MIMEType string
	Prompt   string
}

// Image is an inline image returned by the service.
type Image struct {
	Data     []byte
	MIMEType string
}

// Generator is the generative-AI collaborator.
type Generator interface {
	// GenerateText returns the model's text answer.
	GenerateText(ctx context.Context, req TextRequest) (string, error)

	// EditImage returns the first image in the answer, or nil when the
	// model answered without one.
	EditImage(ctx context.Context, req ImageRequest) (*Image, error)
}

// ServiceError is a failed call with a message fit for the user.
type ServiceError struct {
	Status  int
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	return e.Message
}

// Unwrap exposes both ErrUnavailable and the underlying cause.
func (e *ServiceError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrUnavailable}
	}
	return []error{ErrUnavailable, e.Err}
}

// NotConfiguredError is returned when the stored key is missing or was
// never validated.
type NotConfiguredError struct {
	Message string
}

func (e *NotConfiguredError) Error() string {
	return e.Message
}

func (e *NotConfiguredError) Unwrap() error {
	return ErrNotConfigured
}

// UserMessage extracts the message to show for err, or fallback.
func UserMessage(err error, fallback string) string {
	var se *ServiceError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	var nc *NotConfiguredError
	if errors.As(err, &nc) && nc.Message != "" {
		return nc.Message
	}
	return fallback
}
