package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/restobill-api/internal/application/service"
	"github.com/sangkips/restobill-api/internal/presentation/http/dto/response"
)

// SyncHandler handles cloud backup of bills
type SyncHandler struct {
	syncService *service.SyncService
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(syncService *service.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// Status reports whether cloud sync is configured
func (h *SyncHandler) Status(c *gin.Context) {
	response.OK(c, "Sync status retrieved", gin.H{"enabled": h.syncService.Enabled()})
}

// Sync uploads every unsynced bill
func (h *SyncHandler) Sync(c *gin.Context) {
	result, err := h.syncService.SyncBills(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.Uploaded == 0 {
		response.OK(c, "Everything is already synced", result)
		return
	}
	response.OK(c, "Bills synced successfully", result)
}
