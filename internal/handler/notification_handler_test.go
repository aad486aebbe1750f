package handler

import (
	"net/http"
	"testing"
)

func TestNotifications_CheckListReadClear(t *testing.T) {
	env := newTestEnv(t)
	env.createCarLoan(t)
	handler := NewNotificationHandler(env.notifications)

	c, rec := env.context(http.MethodPost, "/api/v1/notifications/check", "")
	if err := handler.Check(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	expectStatus(t, rec, http.StatusOK)

	var check CheckResponse
	decodeBody(t, rec, &check)
	if len(check.Created) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(check.Created))
	}
	note := check.Created[0]
	if note.Type != "emi_due" || note.Priority != "normal" {
		t.Errorf("Unexpected notification: %+v", note)
	}
	if note.Message != "EMI of ₹10,549.91 for Car is due in 5 days" {
		t.Errorf("Unexpected message %q", note.Message)
	}
	if note.DueDate == nil || *note.DueDate != "2024-06-15" {
		t.Errorf("Expected due date 2024-06-15, got %v", note.DueDate)
	}

	// The same due date is not announced twice
	c, rec = env.context(http.MethodPost, "/api/v1/notifications/check", "")
	if err := handler.Check(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	decodeBody(t, rec, &check)
	if len(check.Created) != 0 {
		t.Errorf("Expected no new notifications, got %d", len(check.Created))
	}

	c, rec = env.context(http.MethodGet, "/api/v1/notifications", "")
	if err := handler.List(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	var list NotificationListResponse
	decodeBody(t, rec, &list)
	if len(list.Notifications) != 1 || list.Unread != 1 {
		t.Errorf("Unexpected list: %+v", list)
	}

	c, rec = env.context(http.MethodPost, "/api/v1/notifications/read", "")
	if err := handler.MarkAllRead(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	var marked map[string]int
	decodeBody(t, rec, &marked)
	if marked["marked"] != 1 {
		t.Errorf("Expected 1 marked, got %d", marked["marked"])
	}

	c, rec = env.context(http.MethodDelete, "/api/v1/notifications", "")
	if err := handler.Clear(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	expectStatus(t, rec, http.StatusNoContent)

	c, rec = env.context(http.MethodGet, "/api/v1/notifications", "")
	if err := handler.List(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	decodeBody(t, rec, &list)
	if len(list.Notifications) != 0 {
		t.Errorf("Expected an empty log, got %d", len(list.Notifications))
	}
}
