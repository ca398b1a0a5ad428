package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/estatedesk/internal/errors"
	"github.com/stwalsh4118/estatedesk/internal/services"
)

// MaxBackupBytes caps the size of an uploaded backup.
const MaxBackupBytes = 64 << 20

// BackupHandler exports and restores every stored document.
type BackupHandler struct {
	service services.BackupService
}

// NewBackupHandler creates a new BackupHandler instance.
func NewBackupHandler(service services.BackupService) *BackupHandler {
	return &BackupHandler{service: service}
}

// Export handles GET /api/v1/backup.
func (h *BackupHandler) Export(c *gin.Context) {
	doc, err := h.service.Export(c.Request.Context())
	if err != nil {
		respondError(c, err, "Not found", "Failed to export data")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="estatedesk-backup.json"`)
	c.JSON(http.StatusOK, doc)
}

// Restore handles POST /api/v1/backup/restore.
func (h *BackupHandler) Restore(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, MaxBackupBytes+1))
	if err != nil {
		apierrors.BadRequest(c, "Failed to read the backup", nil)
		return
	}
	if len(body) > MaxBackupBytes {
		apierrors.BadRequest(c, "The backup is too large", nil)
		return
	}

	result, err := h.service.Restore(c.Request.Context(), body)
	if err != nil {
		respondError(c, err, "Not found", "Failed to restore data")
		return
	}
	c.JSON(http.StatusOK, result)
}
