package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/estatedesk/internal/errors"
	"github.com/stwalsh4118/estatedesk/internal/models"
	"github.com/stwalsh4118/estatedesk/internal/repository"
	"github.com/stwalsh4118/estatedesk/internal/services"
)

// TaskHandler handles task requests.
type TaskHandler struct {
	service   services.TaskService
	assistant services.AssistantService
	now       services.Clock
}

// NewTaskHandler creates a new TaskHandler instance.
func NewTaskHandler(service services.TaskService, assistant services.AssistantService, now services.Clock) *TaskHandler {
	return &TaskHandler{
		service:   service,
		assistant: assistant,
		now:       now,
	}
}

// SuggestScheduleRequest asks the assistant for a slot.
type SuggestScheduleRequest struct {
	Title    string `json:"title"`
	Priority string `json:"priority" binding:"omitempty,oneof=low medium high"`
}

// DueQuery optionally pins the due-check instant (RFC 3339).
type DueQuery struct {
	At string `form:"at" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// DueResponse is the outcome of one due-check.
type DueResponse struct {
	Notification *models.Notification `json:"notification"`
}

// List handles GET /api/v1/tasks.
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Task not found", "Failed to load tasks")
		return
	}
	c.JSON(http.StatusOK, newList(tasks))
}

// Save handles POST /api/v1/tasks.
func (h *TaskHandler) Save(c *gin.Context) {
	patch, ok := bindPatch(c)
	if !ok {
		return
	}
	h.save(c, patch)
}

// Update handles PUT /api/v1/tasks/:id.
func (h *TaskHandler) Update(c *gin.Context) {
	patch, ok := bindPatchWithID(c)
	if !ok {
		return
	}
	h.save(c, patch)
}

func (h *TaskHandler) save(c *gin.Context, patch repository.Patch) {
	task, all, err := h.service.Save(c.Request.Context(), patch)
	if err != nil {
		respondError(c, err, "Task not found", "Failed to save task")
		return
	}
	c.JSON(http.StatusOK, SaveResponse[models.Task]{Item: task, Items: all})
}

// Delete handles DELETE /api/v1/tasks/:id.
func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Task not found", "Failed to delete task")
		return
	}
	noContent(c)
}

// Toggle handles PATCH /api/v1/tasks/:id/toggle.
func (h *TaskHandler) Toggle(c *gin.Context) {
	task, err := h.service.Toggle(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Task not found", "Failed to update task")
		return
	}
	c.JSON(http.StatusOK, task)
}

// Due handles GET /api/v1/tasks/due. Without "at" it checks the current
// office time.
func (h *TaskHandler) Due(c *gin.Context) {
	var q DueQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apierrors.BindingError(c, err, "Invalid query parameters")
		return
	}

	at := h.now()
	if q.At != "" {
		parsed, err := time.Parse(time.RFC3339, q.At)
		if err != nil {
			apierrors.BadRequest(c, "at must be an RFC 3339 timestamp", nil)
			return
		}
		at = parsed
	}

	n, err := h.service.Due(c.Request.Context(), at)
	if err != nil {
		respondError(c, err, "Task not found", "Failed to check due tasks")
		return
	}
	c.JSON(http.StatusOK, DueResponse{Notification: n})
}

// SuggestSchedule handles POST /api/v1/tasks/suggest-schedule.
func (h *TaskHandler) SuggestSchedule(c *gin.Context) {
	var req SuggestScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingError(c, err, "Invalid request body")
		return
	}

	suggestion, err := h.assistant.SuggestSchedule(c.Request.Context(), req.Title, models.Priority(req.Priority))
	if err != nil {
		respondError(c, err, "Task not found", "Failed to suggest a schedule")
		return
	}
	c.JSON(http.StatusOK, suggestion)
}
