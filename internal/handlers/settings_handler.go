package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/estatedesk/internal/errors"
	"github.com/stwalsh4118/estatedesk/internal/models"
	"github.com/stwalsh4118/estatedesk/internal/services"
)

// SettingsHandler handles the settings document and AI key validation.
type SettingsHandler struct {
	service services.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler instance.
func NewSettingsHandler(service services.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// SettingRequest carries the new value of one setting. A null value
// resets it.
type SettingRequest struct {
	Value json.RawMessage `json:"value"`
}

// SettingResponse is one setting with defaults applied.
type SettingResponse struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// ValidateKeyRequest carries the key to probe.
type ValidateKeyRequest struct {
	APIKey string `json:"apiKey"`
}

// All handles GET /api/v1/settings. Keys are redacted.
func (h *SettingsHandler) All(c *gin.Context) {
	settings, err := h.service.Load(c.Request.Context())
	if err != nil {
		respondError(c, err, "Setting not found", "Failed to load settings")
		return
	}
	c.JSON(http.StatusOK, settings.Redacted())
}

// Get handles GET /api/v1/settings/:key.
func (h *SettingsHandler) Get(c *gin.Context) {
	key := c.Param("key")
	value, err := h.service.Get(c.Request.Context(), key)
	if err != nil {
		respondError(c, err, "Setting not found", "Failed to load setting")
		return
	}
	c.JSON(http.StatusOK, SettingResponse{Key: key, Value: value})
}

// Set handles PUT /api/v1/settings/:key.
func (h *SettingsHandler) Set(c *gin.Context) {
	var req SettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingError(c, err, "Invalid request body")
		return
	}

	key := c.Param("key")
	if _, err := h.service.Set(c.Request.Context(), key, req.Value); err != nil {
		respondError(c, err, "Setting not found", "Failed to save setting")
		return
	}

	value, err := h.service.Get(c.Request.Context(), key)
	if err != nil {
		respondError(c, err, "Setting not found", "Failed to load setting")
		return
	}
	c.JSON(http.StatusOK, SettingResponse{Key: key, Value: value})
}

// ValidateAIKey handles POST /api/v1/settings/ai/:kind/validate. A
// rejected key answers 200 with isValid=false and the reason.
func (h *SettingsHandler) ValidateAIKey(c *gin.Context) {
	var req ValidateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingError(c, err, "Invalid request body")
		return
	}

	cfg, err := h.service.ValidateAIKey(c.Request.Context(), models.AIKind(c.Param("kind")), req.APIKey)
	if err != nil {
		respondError(c, err, "Setting not found", "Failed to save the API key")
		return
	}

	c.JSON(http.StatusOK, cfg.Redacted())
}
