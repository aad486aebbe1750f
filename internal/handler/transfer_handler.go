package handler

import (
	"io"
	"net/http"

	"github.com/dafibh/fintrack/fintrack-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// maxImportSize bounds the body of an import request.
const maxImportSize = 10 << 20

// TransferHandler handles export, import and backup requests
type TransferHandler struct {
	transferService *service.TransferService
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(transferService *service.TransferService) *TransferHandler {
	return &TransferHandler{transferService: transferService}
}

// ExportJSON handles GET /api/v1/export/json
func (h *TransferHandler) ExportJSON(c echo.Context) error {
	data, err := h.transferService.ExportJSON(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err, "export data")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="fintrack-export.json"`)
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
}

// ExportCSV handles GET /api/v1/export/csv
func (h *TransferHandler) ExportCSV(c echo.Context) error {
	data, err := h.transferService.ExportCSV(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err, "export data")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="fintrack-export.csv"`)
	return c.Blob(http.StatusOK, "text/csv", data)
}

// Import handles POST /api/v1/import
func (h *TransferHandler) Import(c echo.Context) error {
	data, err := io.ReadAll(io.LimitReader(c.Request().Body, maxImportSize+1))
	if err != nil {
		return NewValidationError(c, "Failed to read request body", nil)
	}
	if len(data) > maxImportSize {
		return NewValidationError(c, "Import file is too large", nil)
	}
	if len(data) == 0 {
		return NewValidationError(c, "Import file is empty", nil)
	}

	result, err := h.transferService.Import(c.Request().Context(), data)
	if err != nil {
		return handleServiceError(c, err, "import data")
	}
	return c.JSON(http.StatusOK, result)
}

// Backup handles POST /api/v1/backup
func (h *TransferHandler) Backup(c echo.Context) error {
	result, err := h.transferService.Backup(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err, "create backup")
	}
	return c.JSON(http.StatusCreated, result)
}
