package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/estatedesk/internal/errors"
	"github.com/stwalsh4118/estatedesk/internal/middleware"
	"github.com/stwalsh4118/estatedesk/internal/models"
	"github.com/stwalsh4118/estatedesk/internal/services"
)

// AssistantHandler serves the chat assistant and AI search.
type AssistantHandler struct {
	service services.AssistantService
}

// NewAssistantHandler creates a new AssistantHandler instance.
func NewAssistantHandler(service services.AssistantService) *AssistantHandler {
	return &AssistantHandler{service: service}
}

// ChatRequest is one user message.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the assistant's answer.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// AISearchRequest describes what the user is looking for.
type AISearchRequest struct {
	Query string `json:"query"`
}

// Chat handles POST /api/v1/assistant/chat.
func (h *AssistantHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingError(c, err, "Invalid request body")
		return
	}

	reply, err := h.service.Chat(c.Request.Context(), middleware.GetActiveUserID(c), req.Message)
	if err != nil {
		respondError(c, err, "Not found", "The assistant could not answer")
		return
	}
	c.JSON(http.StatusOK, ChatResponse{Reply: reply})
}

// Search handles POST /api/v1/assistant/search.
func (h *AssistantHandler) Search(c *gin.Context) {
	var req AISearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingError(c, err, "Invalid request body")
		return
	}

	listings, err := h.service.Search(c.Request.Context(), req.Query)
	if err != nil {
		respondError(c, err, "Not found", "The AI search failed")
		return
	}
	c.JSON(http.StatusOK, newList[models.AIListing](listings))
}
