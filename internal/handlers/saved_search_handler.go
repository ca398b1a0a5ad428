package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/estatedesk/internal/errors"
	"github.com/stwalsh4118/estatedesk/internal/models"
	"github.com/stwalsh4118/estatedesk/internal/services"
)

// SavedSearchHandler handles saved search requests.
type SavedSearchHandler struct {
	service services.SavedSearchService
}

// NewSavedSearchHandler creates a new SavedSearchHandler instance.
func NewSavedSearchHandler(service services.SavedSearchService) *SavedSearchHandler {
	return &SavedSearchHandler{service: service}
}

// SavedSearchRequest names a set of filters.
type SavedSearchRequest struct {
	Title   string               `json:"title"`
	Filters models.SearchFilters `json:"filters"`
}

// List handles GET /api/v1/saved-searches.
func (h *SavedSearchHandler) List(c *gin.Context) {
	searches, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Saved search not found", "Failed to load saved searches")
		return
	}
	c.JSON(http.StatusOK, newList(searches))
}

// Create handles POST /api/v1/saved-searches.
func (h *SavedSearchHandler) Create(c *gin.Context) {
	var req SavedSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingError(c, err, "Invalid request body")
		return
	}

	saved, err := h.service.Create(c.Request.Context(), req.Title, req.Filters)
	if err != nil {
		respondError(c, err, "Saved search not found", "Failed to save search")
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// Delete handles DELETE /api/v1/saved-searches/:id.
func (h *SavedSearchHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Saved search not found", "Failed to delete saved search")
		return
	}
	noContent(c)
}
