package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/estatedesk/internal/errors"
	"github.com/stwalsh4118/estatedesk/internal/models"
	"github.com/stwalsh4118/estatedesk/internal/services"
)

// DashboardHandler serves the aggregate views and the notification feed.
type DashboardHandler struct {
	service services.DashboardService
	feed    *services.NotificationFeed
}

// NewDashboardHandler creates a new DashboardHandler instance.
func NewDashboardHandler(service services.DashboardService, feed *services.NotificationFeed) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		feed:    feed,
	}
}

// Stats handles GET /api/v1/stats.
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err, "Not found", "Failed to load dashboard")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Snapshot handles GET /api/v1/snapshot.
func (h *DashboardHandler) Snapshot(c *gin.Context) {
	snap, err := h.service.Snapshot(c.Request.Context())
	if err != nil {
		respondError(c, err, "Not found", "Failed to load data")
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Notifications handles GET /api/v1/notifications.
func (h *DashboardHandler) Notifications(c *gin.Context) {
	c.JSON(http.StatusOK, newList[models.Notification](h.feed.List()))
}

// ClearNotifications handles DELETE /api/v1/notifications.
func (h *DashboardHandler) ClearNotifications(c *gin.Context) {
	h.feed.Clear()
	noContent(c)
}

// MarkRead handles PATCH /api/v1/notifications/:id/read.
func (h *DashboardHandler) MarkRead(c *gin.Context) {
	if !h.feed.MarkRead(c.Param("id")) {
		apierrors.NotFound(c, "Notification not found")
		return
	}
	noContent(c)
}
