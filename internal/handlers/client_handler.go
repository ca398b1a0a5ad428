package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/estatedesk/internal/errors"
	"github.com/stwalsh4118/estatedesk/internal/models"
	"github.com/stwalsh4118/estatedesk/internal/repository"
	"github.com/stwalsh4118/estatedesk/internal/services"
)

// ClientHandler handles client and reminder requests.
type ClientHandler struct {
	service services.ClientService
}

// NewClientHandler creates a new ClientHandler instance.
func NewClientHandler(service services.ClientService) *ClientHandler {
	return &ClientHandler{service: service}
}

// ReminderRequest is the body of a new reminder. Title and date are
// checked by the service so the messages match the form.
type ReminderRequest struct {
	Title string `json:"title"`
	Date  string `json:"date" binding:"omitempty,jdate"`
	Time  string `json:"time" binding:"omitempty,hhmm"`
}

// List handles GET /api/v1/clients.
func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Client not found", "Failed to load clients")
		return
	}
	c.JSON(http.StatusOK, newList(clients))
}

// Get handles GET /api/v1/clients/:id.
func (h *ClientHandler) Get(c *gin.Context) {
	client, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Client not found", "Failed to load client")
		return
	}
	c.JSON(http.StatusOK, client)
}

// Save handles POST /api/v1/clients.
func (h *ClientHandler) Save(c *gin.Context) {
	patch, ok := bindPatch(c)
	if !ok {
		return
	}
	h.save(c, patch)
}

// Update handles PUT /api/v1/clients/:id.
func (h *ClientHandler) Update(c *gin.Context) {
	patch, ok := bindPatchWithID(c)
	if !ok {
		return
	}
	h.save(c, patch)
}

func (h *ClientHandler) save(c *gin.Context, patch repository.Patch) {
	client, all, err := h.service.Save(c.Request.Context(), patch)
	if err != nil {
		respondError(c, err, "Client not found", "Failed to save client")
		return
	}
	c.JSON(http.StatusOK, SaveResponse[models.Client]{Item: client, Items: all})
}

// Delete handles DELETE /api/v1/clients/:id.
func (h *ClientHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Client not found", "Failed to delete client")
		return
	}
	noContent(c)
}

// AddReminder handles POST /api/v1/clients/:id/reminders.
func (h *ClientHandler) AddReminder(c *gin.Context) {
	var req ReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingError(c, err, "Invalid request body")
		return
	}

	client, err := h.service.AddReminder(c.Request.Context(), c.Param("id"), services.ReminderInput{
		Title: req.Title,
		Date:  req.Date,
		Time:  req.Time,
	})
	if err != nil {
		respondError(c, err, "Client not found", "Failed to add reminder")
		return
	}
	c.JSON(http.StatusCreated, client)
}

// DeleteReminder handles DELETE /api/v1/clients/:id/reminders/:reminderId.
func (h *ClientHandler) DeleteReminder(c *gin.Context) {
	client, err := h.service.DeleteReminder(c.Request.Context(), c.Param("id"), c.Param("reminderId"))
	if err != nil {
		respondError(c, err, "Client not found", "Failed to delete reminder")
		return
	}
	c.JSON(http.StatusOK, client)
}

// ToggleReminder handles PATCH /api/v1/clients/:id/reminders/:reminderId/toggle.
func (h *ClientHandler) ToggleReminder(c *gin.Context) {
	client, err := h.service.ToggleReminder(c.Request.Context(), c.Param("id"), c.Param("reminderId"))
	if err != nil {
		respondError(c, err, "Reminder not found", "Failed to update reminder")
		return
	}
	c.JSON(http.StatusOK, client)
}
