package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/estatedesk/internal/errors"
	"github.com/stwalsh4118/estatedesk/internal/middleware"
	"github.com/stwalsh4118/estatedesk/internal/models"
	"github.com/stwalsh4118/estatedesk/internal/repository"
	"github.com/stwalsh4118/estatedesk/internal/services"
)

// UserHandler handles operator requests.
type UserHandler struct {
	service services.UserService
}

// NewUserHandler creates a new UserHandler instance.
func NewUserHandler(service services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// LocationRequest is a live-location ping.
type LocationRequest struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lng *float64 `json:"lng" binding:"required"`
}

// List handles GET /api/v1/users.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "User not found", "Failed to load users")
		return
	}
	c.JSON(http.StatusOK, newList(users))
}

// Me handles GET /api/v1/users/me.
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.service.Me(c.Request.Context(), middleware.GetActiveUserID(c))
	if err != nil {
		respondError(c, err, "Active user not found", "Failed to load user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// Save handles POST /api/v1/users.
func (h *UserHandler) Save(c *gin.Context) {
	patch, ok := bindPatch(c)
	if !ok {
		return
	}
	h.save(c, patch)
}

// Update handles PUT /api/v1/users/:id.
func (h *UserHandler) Update(c *gin.Context) {
	patch, ok := bindPatchWithID(c)
	if !ok {
		return
	}
	h.save(c, patch)
}

func (h *UserHandler) save(c *gin.Context, patch repository.Patch) {
	user, all, err := h.service.Save(c.Request.Context(), patch)
	if err != nil {
		respondError(c, err, "User not found", "Failed to save user")
		return
	}
	c.JSON(http.StatusOK, SaveResponse[models.User]{Item: user, Items: all})
}

// Delete handles DELETE /api/v1/users/:id and returns the remaining users.
func (h *UserHandler) Delete(c *gin.Context) {
	users, err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "User not found", "Failed to delete user")
		return
	}
	c.JSON(http.StatusOK, newList(users))
}

// UpdateLocation handles PUT /api/v1/users/:id/location.
func (h *UserHandler) UpdateLocation(c *gin.Context) {
	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingError(c, err, "Invalid request body")
		return
	}

	user, err := h.service.UpdateLocation(c.Request.Context(), c.Param("id"), *req.Lat, *req.Lng)
	if err != nil {
		respondError(c, err, "User not found", "Failed to update location")
		return
	}
	c.JSON(http.StatusOK, user)
}
