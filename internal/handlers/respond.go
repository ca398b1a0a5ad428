package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/estatedesk/internal/ai"
	apierrors "github.com/stwalsh4118/estatedesk/internal/errors"
	"github.com/stwalsh4118/estatedesk/internal/repository"
	"github.com/stwalsh4118/estatedesk/internal/services"
)

// ListResponse wraps a collection.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func newList[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Count: len(items)}
}

// SaveResponse is returned by upserts: the saved record and the full
// collection after the write.
type SaveResponse[T any] struct {
	Item  *T  `json:"item"`
	Items []T `json:"items"`
}

// respondError maps a service error onto the error envelope. notFound is
// the message for a missing record; failure is used for unexpected and
// storage errors.
func respondError(c *gin.Context, err error, notFound, failure string) {
	var fieldErr *services.FieldError

	switch {
	case errors.As(err, &fieldErr):
		apierrors.FieldValidationError(c, fieldErr.Field, fieldErr.Message)
	case errors.Is(err, services.ErrNotFound):
		apierrors.NotFound(c, notFound)
	case errors.Is(err, services.ErrInvalidCoordinates),
		errors.Is(err, services.ErrInvalidRadius),
		errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInvalidBackup),
		errors.Is(err, services.ErrUnknownSetting):
		apierrors.BadRequest(c, err.Error(), nil)
	case errors.Is(err, services.ErrAINotConfigured):
		apierrors.BadRequest(c, ai.UserMessage(err, "The AI key is not set."), map[string]interface{}{
			"reason": "ai_not_configured",
		})
	case errors.Is(err, services.ErrAIUnavailable):
		apierrors.ExternalServiceError(c, ai.UserMessage(err, "The AI service is unavailable. Try again later."), err)
	case errors.Is(err, services.ErrStorage):
		apierrors.StorageError(c, failure, err)
	default:
		apierrors.InternalServerError(c, failure, err)
	}
}

// bindPatch reads the request body as a partial record.
func bindPatch(c *gin.Context) (repository.Patch, bool) {
	var patch repository.Patch
	if err := json.NewDecoder(c.Request.Body).Decode(&patch); err != nil || patch == nil {
		apierrors.BadRequest(c, "Request body must be a JSON object", nil)
		return nil, false
	}
	return patch, true
}

// bindPatchWithID reads the body and forces the id from the path.
func bindPatchWithID(c *gin.Context) (repository.Patch, bool) {
	patch, ok := bindPatch(c)
	if !ok {
		return nil, false
	}
	if err := patch.Set("id", c.Param("id")); err != nil {
		apierrors.InternalServerError(c, "Failed to read request", err)
		return nil, false
	}
	return patch, true
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
