package handler

import (
	"net/http"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationService *service.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID        string  `json:"id"`
	Timestamp string  `json:"timestamp"`
	Read      bool    `json:"read"`
	Type      string  `json:"type"`
	Message   string  `json:"message"`
	LoanID    string  `json:"loanId"`
	Priority  string  `json:"priority"`
	DueDate   *string `json:"dueDate,omitempty"`
	Resolved  *bool   `json:"resolved,omitempty"`
}

// NotificationListResponse is the notification log with its unread count
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Unread        int                    `json:"unread"`
}

// CheckResponse lists what a check created and resolved
type CheckResponse struct {
	Created  []NotificationResponse `json:"created"`
	Resolved []NotificationResponse `json:"resolved"`
}

// List handles GET /api/v1/notifications
func (h *NotificationHandler) List(c echo.Context) error {
	list, err := h.notificationService.List(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err, "list notifications")
	}
	return c.JSON(http.StatusOK, NotificationListResponse{
		Notifications: toNotificationResponses(list.Notifications),
		Unread:        list.Unread,
	})
}

// Check handles POST /api/v1/notifications/check
func (h *NotificationHandler) Check(c echo.Context) error {
	result, err := h.notificationService.CheckForDueEMIs(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err, "check due EMIs")
	}
	return c.JSON(http.StatusOK, CheckResponse{
		Created:  toNotificationResponses(result.Created),
		Resolved: toNotificationResponses(result.Resolved),
	})
}

// MarkAllRead handles POST /api/v1/notifications/read
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	n, err := h.notificationService.MarkAllRead(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err, "mark notifications read")
	}
	return c.JSON(http.StatusOK, map[string]int{"marked": n})
}

// Clear handles DELETE /api/v1/notifications
func (h *NotificationHandler) Clear(c echo.Context) error {
	if err := h.notificationService.Clear(c.Request().Context()); err != nil {
		return handleServiceError(c, err, "clear notifications")
	}
	return c.NoContent(http.StatusNoContent)
}

func toNotificationResponses(notes []domain.Notification) []NotificationResponse {
	response := make([]NotificationResponse, len(notes))
	for i, n := range notes {
		response[i] = NotificationResponse{
			ID:        n.ID,
			Timestamp: n.Timestamp.UTC().Format("2006-01-02T15:04:05Z07:00"),
			Read:      n.Read,
			Type:      string(n.Type),
			Message:   n.Message,
			LoanID:    string(n.LoanID),
			Priority:  string(n.Priority),
			Resolved:  n.Resolved,
		}
		if n.DueDate != nil {
			due := n.DueDate.String()
			response[i].DueDate = &due
		}
	}
	return response
}
