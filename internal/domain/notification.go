package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationType is the kind of reminder emitted for a loan.
type NotificationType string

const (
	NotificationEMIDue        NotificationType = "emi_due"
	NotificationMissedPayment NotificationType = "missed_payment"
)

// NotificationPriority orders reminders by urgency.
type NotificationPriority string

const (
	PriorityNormal NotificationPriority = "normal"
	PriorityHigh   NotificationPriority = "high"
	PriorityUrgent NotificationPriority = "urgent"
)

// Notification is an entry in the persisted reminder log. The log doubles as
// the dedup source: the same loan+type+due date is never emitted twice.
type Notification struct {
	ID        string               `json:"id"`
	Timestamp time.Time            `json:"timestamp"`
	Read      bool                 `json:"read"`
	Type      NotificationType     `json:"type"`
	Message   string               `json:"message"`
	LoanID    LoanID               `json:"debtId"`
	Priority  NotificationPriority `json:"priority"`
	DueDate   *Date                `json:"dueDate,omitempty"`
	Resolved  *bool                `json:"resolved,omitempty"`
}

// IsOpenMissedPayment reports whether n is an unresolved missed-payment notice.
func (n *Notification) IsOpenMissedPayment() bool {
	return n.Type == NotificationMissedPayment && (n.Resolved == nil || !*n.Resolved)
}

// SameDue reports whether n announces the given loan/type/due date.
func (n *Notification) SameDue(loanID LoanID, typ NotificationType, due Date) bool {
	return n.Type == typ && n.LoanID == loanID && n.DueDate != nil && n.DueDate.Equal(due)
}

var ErrNotificationInvalid = errors.New("notification requires id, timestamp, type and message")

func (n *Notification) Validate() error {
	if n.ID == "" || n.Timestamp.IsZero() || n.Message == "" || n.LoanID == "" {
		return ErrNotificationInvalid
	}
	switch n.Type {
	case NotificationEMIDue, NotificationMissedPayment:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrNotificationInvalid, n.Type)
	}
	switch n.Priority {
	case PriorityNormal, PriorityHigh, PriorityUrgent:
	default:
		return fmt.Errorf("%w: unknown priority %q", ErrNotificationInvalid, n.Priority)
	}
	return nil
}
