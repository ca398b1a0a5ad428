package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/estatedesk/internal/errors"
	"github.com/stwalsh4118/estatedesk/internal/middleware"
	"github.com/stwalsh4118/estatedesk/internal/models"
	"github.com/stwalsh4118/estatedesk/internal/services"
)

// DefaultNearbyRadius is used when the nearby request has no radius.
const DefaultNearbyRadius = 1000

// PropertyHandler handles listing requests.
type PropertyHandler struct {
	service   services.PropertyService
	assistant services.AssistantService
}

// NewPropertyHandler creates a new PropertyHandler instance.
func NewPropertyHandler(service services.PropertyService, assistant services.AssistantService) *PropertyHandler {
	return &PropertyHandler{
		service:   service,
		assistant: assistant,
	}
}

// SearchQuery is the query string of the listing search.
type SearchQuery struct {
	Query           string   `form:"q"`
	Residential     *bool    `form:"residential"`
	Commercial      *bool    `form:"commercial"`
	MinPrice        *float64 `form:"minPrice" binding:"omitempty,gte=0"`
	MaxPrice        *float64 `form:"maxPrice" binding:"omitempty,gte=0"`
	MinArea         *float64 `form:"minArea" binding:"omitempty,gte=0"`
	MaxArea         *float64 `form:"maxArea" binding:"omitempty,gte=0"`
	TransactionType string   `form:"transactionType" binding:"omitempty,oneof=sale rent mortgage presale participation"`
	Bedrooms        *int     `form:"bedrooms" binding:"omitempty,gte=0"`
	MinYear         *int     `form:"minYear" binding:"omitempty,gte=0"`
}

// Targets resolves the category toggles. Both default to on.
func (q SearchQuery) Targets() models.SearchTargets {
	t := models.AllTargets
	if q.Residential != nil {
		t.Residential = *q.Residential
	}
	if q.Commercial != nil {
		t.Commercial = *q.Commercial
	}
	return t
}

// Filters converts the query into search filters.
func (q SearchQuery) Filters() models.SearchFilters {
	return models.SearchFilters{
		Query:           q.Query,
		Targets:         q.Targets(),
		MinPrice:        q.MinPrice,
		MaxPrice:        q.MaxPrice,
		MinArea:         q.MinArea,
		MaxArea:         q.MaxArea,
		TransactionType: models.TransactionType(q.TransactionType),
		Bedrooms:        q.Bedrooms,
		MinYear:         q.MinYear,
	}
}

// NearbyRequest represents the query parameters for the nearby endpoint.
type NearbyRequest struct {
	Lat    *float64 `form:"lat" binding:"required"`
	Lng    *float64 `form:"lng" binding:"required"`
	Radius int      `form:"radius" binding:"omitempty,min=1,max=5000"`
}

// NearbyResponse represents the response for the nearby endpoint.
type NearbyResponse struct {
	Properties []services.NearbyProperty `json:"properties"`
	Count      int                       `json:"count"`
}

// StagingRequest selects the photo and style for virtual staging.
type StagingRequest struct {
	ImageIndex int    `json:"imageIndex" binding:"gte=0"`
	Image      string `json:"image"`
	Style      string `json:"style"`
}

// TextResponse carries generated text.
type TextResponse struct {
	Text string `json:"text"`
}

// ImageResponse carries a generated image as a data URI.
type ImageResponse struct {
	Image string `json:"image"`
}

// List handles GET /api/v1/properties. Without filters it returns every
// listing in stored order.
func (h *PropertyHandler) List(c *gin.Context) {
	var q SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apierrors.BindingError(c, err, "Invalid query parameters")
		return
	}

	properties, err := h.service.Search(c.Request.Context(), q.Filters())
	if err != nil {
		respondError(c, err, "Property not found", "Failed to load properties")
		return
	}
	c.JSON(http.StatusOK, newList(properties))
}

// Get handles GET /api/v1/properties/:id.
func (h *PropertyHandler) Get(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Property not found", "Failed to load property")
		return
	}
	c.JSON(http.StatusOK, p)
}

// Save handles POST /api/v1/properties.
func (h *PropertyHandler) Save(c *gin.Context) {
	patch, ok := bindPatch(c)
	if !ok {
		return
	}

	p, all, err := h.service.Save(c.Request.Context(), patch)
	if err != nil {
		respondError(c, err, "Property not found", "Failed to save property")
		return
	}
	c.JSON(http.StatusOK, SaveResponse[models.Property]{Item: p, Items: all})
}

// Update handles PUT /api/v1/properties/:id.
func (h *PropertyHandler) Update(c *gin.Context) {
	patch, ok := bindPatchWithID(c)
	if !ok {
		return
	}

	p, all, err := h.service.Save(c.Request.Context(), patch)
	if err != nil {
		respondError(c, err, "Property not found", "Failed to save property")
		return
	}
	c.JSON(http.StatusOK, SaveResponse[models.Property]{Item: p, Items: all})
}

// Delete handles DELETE /api/v1/properties/:id.
func (h *PropertyHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Property not found", "Failed to delete property")
		return
	}
	noContent(c)
}

// Instant handles GET /api/v1/properties/instant.
func (h *PropertyHandler) Instant(c *gin.Context) {
	var q SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apierrors.BindingError(c, err, "Invalid query parameters")
		return
	}

	properties, err := h.service.Instant(c.Request.Context(), q.Query, q.Targets())
	if err != nil {
		respondError(c, err, "Property not found", "Failed to search properties")
		return
	}
	c.JSON(http.StatusOK, newList(properties))
}

// Nearby handles GET /api/v1/properties/nearby.
func (h *PropertyHandler) Nearby(c *gin.Context) {
	var req NearbyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		apierrors.BindingError(c, err, "Invalid query parameters")
		return
	}
	if req.Radius == 0 {
		req.Radius = DefaultNearbyRadius
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Info("Processing nearby request", map[string]interface{}{
			"lat":    *req.Lat,
			"lng":    *req.Lng,
			"radius": req.Radius,
		})
	}

	properties, err := h.service.Nearby(c.Request.Context(), *req.Lat, *req.Lng, req.Radius)
	if err != nil {
		respondError(c, err, "Property not found", "Failed to query nearby properties")
		return
	}
	if properties == nil {
		properties = []services.NearbyProperty{}
	}

	c.JSON(http.StatusOK, NearbyResponse{
		Properties: properties,
		Count:      len(properties),
	})
}

// Markers handles GET /api/v1/properties/markers.
func (h *PropertyHandler) Markers(c *gin.Context) {
	markers, err := h.service.Markers(c.Request.Context())
	if err != nil {
		respondError(c, err, "Property not found", "Failed to load map markers")
		return
	}
	c.JSON(http.StatusOK, markers)
}

// AdCopy handles POST /api/v1/properties/:id/ad-copy.
func (h *PropertyHandler) AdCopy(c *gin.Context) {
	text, err := h.assistant.AdCopy(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Property not found", "Failed to write the ad")
		return
	}
	c.JSON(http.StatusOK, TextResponse{Text: text})
}

// Staging handles POST /api/v1/properties/:id/staging.
func (h *PropertyHandler) Staging(c *gin.Context) {
	var req StagingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingError(c, err, "Invalid request body")
		return
	}

	image, err := h.assistant.Staging(c.Request.Context(), services.StagingInput{
		PropertyID: c.Param("id"),
		ImageIndex: req.ImageIndex,
		Image:      req.Image,
		Style:      req.Style,
	})
	if err != nil {
		respondError(c, err, "Property not found", "Failed to stage the photo")
		return
	}
	c.JSON(http.StatusOK, ImageResponse{Image: image})
}
