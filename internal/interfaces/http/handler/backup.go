package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/goldbook/backend/internal/infrastructure/backup"
)

// Backuper creates, lists and restores database backups
type Backuper interface {
	Create(ctx context.Context) (*backup.Info, error)
	List() ([]backup.Info, error)
	Restore(ctx context.Context, name string) error
}

// RestoreRequest names the backup file to restore
type RestoreRequest struct {
	Name string `json:"name" binding:"required"`
}

// BackupHandler handles backup and restore endpoints
type BackupHandler struct {
	BaseHandler
	backups Backuper
}

// NewBackupHandler creates a new BackupHandler
func NewBackupHandler(backups Backuper) *BackupHandler {
	return &BackupHandler{backups: backups}
}

// Create handles POST /backups
func (h *BackupHandler) Create(c *gin.Context) {
	info, err := h.backups.Create(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, info)
}

// List handles GET /backups, newest first
func (h *BackupHandler) List(c *gin.Context) {
	infos, err := h.backups.List()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, infos)
}

// Restore handles POST /backups/restore. Every table is replaced with the
// backup's rows; the connection stays open.
func (h *BackupHandler) Restore(c *gin.Context) {
	var req RestoreRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.backups.Restore(c.Request.Context(), req.Name); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"restored": req.Name})
}
