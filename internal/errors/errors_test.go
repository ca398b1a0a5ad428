package errors

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/estatedesk/internal/logger"
	"github.com/stwalsh4118/estatedesk/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	c.Set("logger", logger.Nop())
	c.Set(middleware.RequestIDKey, "test-request-id")
	return c, w
}

func parseErrorResponse(t *testing.T, body *bytes.Buffer) ErrorResponse {
	var response ErrorResponse
	require.NoError(t, json.Unmarshal(body.Bytes(), &response), "Failed to parse error response JSON")
	return response
}

func TestNotFound(t *testing.T) {
	c, w := setupTestContext()

	NotFound(c, "Property not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrNotFound, response.Error.Code)
	assert.Equal(t, "Property not found", response.Error.Message)
	assert.Equal(t, "test-request-id", response.Error.RequestID)
	assert.Nil(t, response.Error.Details)
	assert.True(t, c.IsAborted())
}

func TestBadRequest(t *testing.T) {
	t.Run("without details", func(t *testing.T) {
		c, w := setupTestContext()

		BadRequest(c, "Invalid input", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		response := parseErrorResponse(t, w.Body)
		assert.Equal(t, ErrBadRequest, response.Error.Code)
		assert.Nil(t, response.Error.Details)
	})

	t.Run("with details", func(t *testing.T) {
		c, w := setupTestContext()

		BadRequest(c, "Invalid input", map[string]interface{}{"field": "area"})

		response := parseErrorResponse(t, w.Body)
		assert.Equal(t, "area", response.Error.Details["field"])
	})
}

func TestInternalServerError(t *testing.T) {
	c, w := setupTestContext()

	InternalServerError(c, "An unexpected error occurred", errors.New("secret cause"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrInternalServer, response.Error.Code)
	assert.NotContains(t, w.Body.String(), "secret cause")
}

func TestStorageError(t *testing.T) {
	c, w := setupTestContext()

	StorageError(c, "Could not save tasks", errors.New("disk full"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrStorage, response.Error.Code)
	assert.Equal(t, "Could not save tasks", response.Error.Message)
}

func TestExternalServiceError(t *testing.T) {
	c, w := setupTestContext()

	ExternalServiceError(c, "The AI service rejected the API key.", errors.New("403"))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrExternalService, response.Error.Code)
	assert.Equal(t, "The AI service rejected the API key.", response.Error.Message)
}

func TestValidationError(t *testing.T) {
	c, w := setupTestContext()

	type reminderInput struct {
		Title string `validate:"required"`
		Pct   int    `validate:"gte=0,lte=100"`
	}

	err := validator.New().Struct(reminderInput{Pct: 140})
	require.Error(t, err)
	validationErrors, ok := err.(validator.ValidationErrors)
	require.True(t, ok)

	ValidationError(c, validationErrors)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrValidation, response.Error.Code)
	assert.Equal(t, "This field is required", response.Error.Details["Title"])
	assert.Equal(t, "Must be less than or equal to 100", response.Error.Details["Pct"])
}

func TestFieldValidationError(t *testing.T) {
	c, w := setupTestContext()

	FieldValidationError(c, "date", "A reminder needs a date")

	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrValidation, response.Error.Code)
	assert.Equal(t, "A reminder needs a date", response.Error.Message)
	assert.Equal(t, "A reminder needs a date", response.Error.Details["date"])
}

func TestBindingError(t *testing.T) {
	t.Run("validator errors become field details", func(t *testing.T) {
		c, w := setupTestContext()
		err := validator.New().Var("", "required")

		BindingError(c, err, "Invalid body")

		response := parseErrorResponse(t, w.Body)
		assert.Equal(t, ErrValidation, response.Error.Code)
	})

	t.Run("other errors become bad request", func(t *testing.T) {
		c, w := setupTestContext()

		BindingError(c, errors.New("unexpected EOF"), "Invalid body")

		response := parseErrorResponse(t, w.Body)
		assert.Equal(t, ErrBadRequest, response.Error.Code)
		assert.Equal(t, "Invalid body", response.Error.Message)
	})
}

func TestFormatValidationError(t *testing.T) {
	tests := []struct {
		tag      string
		param    string
		expected string
	}{
		{tag: "required", expected: "This field is required"},
		{tag: "min", param: "2", expected: "Value is too short or small (minimum: 2)"},
		{tag: "max", param: "100", expected: "Value is too long or large (maximum: 100)"},
		{tag: "gte", param: "0", expected: "Must be greater than or equal to 0"},
		{tag: "oneof", param: "sale rent", expected: "Must be one of: sale rent"},
		{tag: "jdate", expected: "Must be a calendar date like 1403/5/1"},
		{tag: "hhmm", expected: "Must be a time like 10:00"},
		{tag: "unknown_tag", expected: "Validation failed for tag: unknown_tag"},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			result := formatValidationError(&mockFieldError{tag: tt.tag, param: tt.param})
			assert.Equal(t, tt.expected, result)
		})
	}
}

// mockFieldError is a mock implementation of validator.FieldError for testing.
type mockFieldError struct {
	tag   string
	param string
}

func (m *mockFieldError) Tag() string                    { return m.tag }
func (m *mockFieldError) ActualTag() string              { return m.tag }
func (m *mockFieldError) Namespace() string              { return "" }
func (m *mockFieldError) StructNamespace() string        { return "" }
func (m *mockFieldError) Field() string                  { return "TestField" }
func (m *mockFieldError) StructField() string            { return "TestField" }
func (m *mockFieldError) Value() interface{}             { return nil }
func (m *mockFieldError) Param() string                  { return m.param }
func (m *mockFieldError) Kind() reflect.Kind             { return reflect.String }
func (m *mockFieldError) Type() reflect.Type             { return nil }
func (m *mockFieldError) Translate(ut.Translator) string { return "" }
func (m *mockFieldError) Error() string                  { return "" }
