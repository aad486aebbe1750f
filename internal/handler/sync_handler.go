package handler

import (
	"net/http"

	"github.com/dafibh/fintrack/fintrack-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// SyncHandler reports and toggles the connectivity state
type SyncHandler struct {
	syncService *service.SyncService
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(syncService *service.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// SetSyncStatusRequest represents the set sync status request body
type SetSyncStatusRequest struct {
	Online *bool `json:"online"`
}

// Status handles GET /api/v1/sync
func (h *SyncHandler) Status(c echo.Context) error {
	status, err := h.syncService.Status(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err, "get sync status")
	}
	return c.JSON(http.StatusOK, status)
}

// SetStatus handles PUT /api/v1/sync
// Going online flushes the queued offline changes.
func (h *SyncHandler) SetStatus(c echo.Context) error {
	var req SetSyncStatusRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if req.Online == nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "online", Message: "Online is required"},
		})
	}

	status, err := h.syncService.SetOnline(c.Request().Context(), *req.Online)
	if err != nil {
		return handleServiceError(c, err, "set sync status")
	}
	return c.JSON(http.StatusOK, status)
}
