package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/estatedesk/internal/errors"
	"github.com/stwalsh4118/estatedesk/internal/models"
	"github.com/stwalsh4118/estatedesk/internal/repository"
	"github.com/stwalsh4118/estatedesk/internal/services"
)

// CommissionHandler handles the commission ledger.
type CommissionHandler struct {
	service services.CommissionService
}

// NewCommissionHandler creates a new CommissionHandler instance.
func NewCommissionHandler(service services.CommissionService) *CommissionHandler {
	return &CommissionHandler{service: service}
}

// QuoteRequest is the commission form state after one field changed.
type QuoteRequest struct {
	PropertyPrice   float64  `json:"propertyPrice" binding:"gte=0"`
	TotalCommission *float64 `json:"totalCommission" binding:"omitempty,gte=0"`
	AgentPercentage *float64 `json:"agentPercentage" binding:"omitempty,gte=0,lte=100"`
	Changed         string   `json:"changed" binding:"omitempty,oneof=propertyPrice totalCommission agentPercentage"`
	Editing         bool     `json:"editing"`
}

// List handles GET /api/v1/commissions.
func (h *CommissionHandler) List(c *gin.Context) {
	commissions, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Commission not found", "Failed to load commissions")
		return
	}
	c.JSON(http.StatusOK, newList(commissions))
}

// Save handles POST /api/v1/commissions.
func (h *CommissionHandler) Save(c *gin.Context) {
	patch, ok := bindPatch(c)
	if !ok {
		return
	}
	h.save(c, patch)
}

// Update handles PUT /api/v1/commissions/:id.
func (h *CommissionHandler) Update(c *gin.Context) {
	patch, ok := bindPatchWithID(c)
	if !ok {
		return
	}
	h.save(c, patch)
}

func (h *CommissionHandler) save(c *gin.Context, patch repository.Patch) {
	commission, all, err := h.service.Save(c.Request.Context(), patch)
	if err != nil {
		respondError(c, err, "Commission not found", "Failed to save commission")
		return
	}
	c.JSON(http.StatusOK, SaveResponse[models.Commission]{Item: commission, Items: all})
}

// Delete handles DELETE /api/v1/commissions/:id.
func (h *CommissionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Commission not found", "Failed to delete commission")
		return
	}
	noContent(c)
}

// TogglePaid handles PATCH /api/v1/commissions/:id/toggle-paid.
func (h *CommissionHandler) TogglePaid(c *gin.Context) {
	commission, err := h.service.TogglePaid(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Commission not found", "Failed to update commission")
		return
	}
	c.JSON(http.StatusOK, commission)
}

// Quote handles POST /api/v1/commissions/quote.
func (h *CommissionHandler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingError(c, err, "Invalid request body")
		return
	}

	quote, err := h.service.Quote(services.QuoteInput{
		PropertyPrice:   req.PropertyPrice,
		TotalCommission: req.TotalCommission,
		AgentPercentage: req.AgentPercentage,
		Changed:         req.Changed,
		Editing:         req.Editing,
	})
	if err != nil {
		respondError(c, err, "Commission not found", "Failed to calculate commission")
		return
	}
	c.JSON(http.StatusOK, quote)
}

// Summary handles GET /api/v1/commissions/summary.
func (h *CommissionHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err, "Commission not found", "Failed to summarize commissions")
		return
	}
	c.JSON(http.StatusOK, summary)
}
