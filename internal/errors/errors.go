package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stwalsh4118/estatedesk/internal/middleware"
)

// Error code constants for standardized error responses
const (
	ErrNotFound        = "NOT_FOUND"
	ErrBadRequest      = "BAD_REQUEST"
	ErrInternalServer  = "INTERNAL_SERVER_ERROR"
	ErrValidation      = "VALIDATION_ERROR"
	ErrExternalService = "EXTERNAL_SERVICE_ERROR"
	ErrStorage         = "STORAGE_ERROR"
)

// ErrorResponse is the top-level error response structure.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error information.
// Message is always safe to show to the user as an alert.
type ErrorDetail struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

func respond(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: middleware.GetRequestID(c),
		},
	})
}

func baseFields(c *gin.Context) map[string]interface{} {
	return map[string]interface{}{
		"request_id": middleware.GetRequestID(c),
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
	}
}

// NotFound returns a 404 Not Found error response.
func NotFound(c *gin.Context, message string) {
	if log := middleware.GetLogger(c); log != nil {
		fields := baseFields(c)
		fields["message"] = message
		log.Warn("Resource not found", fields)
	}

	respond(c, http.StatusNotFound, ErrNotFound, message, nil)
}

// BadRequest returns a 400 Bad Request error response with optional details.
func BadRequest(c *gin.Context, message string, details map[string]interface{}) {
	if log := middleware.GetLogger(c); log != nil {
		fields := baseFields(c)
		fields["message"] = message
		if details != nil {
			fields["details"] = details
		}
		log.Warn("Bad request", fields)
	}

	respond(c, http.StatusBadRequest, ErrBadRequest, message, details)
}

// InternalServerError returns a 500 response. The cause is logged and
// never exposed to the client.
func InternalServerError(c *gin.Context, message string, err error) {
	if log := middleware.GetLogger(c); log != nil {
		fields := baseFields(c)
		fields["message"] = message
		log.Error("Internal server error", err, fields)
	}

	respond(c, http.StatusInternalServerError, ErrInternalServer, message, nil)
}

// StorageError returns a 500 response for a failed persistence write.
func StorageError(c *gin.Context, message string, err error) {
	if log := middleware.GetLogger(c); log != nil {
		fields := baseFields(c)
		fields["message"] = message
		log.Error("Storage error", err, fields)
	}

	respond(c, http.StatusInternalServerError, ErrStorage, message, nil)
}

// ExternalServiceError returns a 502 response for a failed call to an
// external collaborator. The message is shown to the user verbatim.
func ExternalServiceError(c *gin.Context, message string, err error) {
	if log := middleware.GetLogger(c); log != nil {
		fields := baseFields(c)
		fields["message"] = message
		log.Warn("External service error", fields)
		if err != nil {
			log.Debug("External service cause", map[string]interface{}{"cause": err.Error()})
		}
	}

	respond(c, http.StatusBadGateway, ErrExternalService, message, nil)
}

// ValidationError returns a 400 Bad Request error response with field-specific validation errors.
func ValidationError(c *gin.Context, validationErrors validator.ValidationErrors) {
	details := make(map[string]interface{}, len(validationErrors))
	for _, err := range validationErrors {
		details[err.Field()] = formatValidationError(err)
	}

	if log := middleware.GetLogger(c); log != nil {
		fields := baseFields(c)
		fields["fields"] = details
		log.Warn("Validation error", fields)
	}

	respond(c, http.StatusBadRequest, ErrValidation, "Validation failed for one or more fields", details)
}

// FieldValidationError reports a single domain-level field failure in the
// same shape as binding failures.
func FieldValidationError(c *gin.Context, field, message string) {
	details := map[string]interface{}{field: message}

	if log := middleware.GetLogger(c); log != nil {
		fields := baseFields(c)
		fields["fields"] = details
		log.Warn("Validation error", fields)
	}

	respond(c, http.StatusBadRequest, ErrValidation, message, details)
}

// BindingError renders the error returned by gin's ShouldBind* helpers.
func BindingError(c *gin.Context, err error, fallback string) {
	var validationErrors validator.ValidationErrors
	if stderrors.As(err, &validationErrors) {
		ValidationError(c, validationErrors)
		return
	}
	BadRequest(c, fallback, nil)
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "required_without":
		return "This field is required when " + err.Param() + " is missing"
	case "min":
		return "Value is too short or small (minimum: " + err.Param() + ")"
	case "max":
		return "Value is too long or large (maximum: " + err.Param() + ")"
	case "gt":
		return "Must be greater than " + err.Param()
	case "gte":
		return "Must be greater than or equal to " + err.Param()
	case "lt":
		return "Must be less than " + err.Param()
	case "lte":
		return "Must be less than or equal to " + err.Param()
	case "oneof":
		return "Must be one of: " + err.Param()
	case "latitude":
		return "Must be a valid latitude"
	case "longitude":
		return "Must be a valid longitude"
	case "datetime":
		return "Must match the format " + err.Param()
	case "jdate":
		return "Must be a calendar date like 1403/5/1"
	case "hhmm":
		return "Must be a time like 10:00"
	default:
		return "Validation failed for tag: " + err.Tag()
	}
}
