package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents what happened to an entity
type EventType string

const (
	EventTypeCreated  EventType = "created"
	EventTypeDeleted  EventType = "deleted"
	EventTypeRead     EventType = "read"
	EventTypeCleared  EventType = "cleared"
	EventTypeResolved EventType = "resolved"
	EventTypeImported EventType = "imported"
	EventTypeSynced   EventType = "synced"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeLoan         EntityType = "loan"
	EntityTypePayment      EntityType = "payment"
	EntityTypeNotification EntityType = "notification"
	EntityTypeWorkspace    EntityType = "workspace"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string     `json:"type"`      // e.g. "notification.created"
	Entity    EntityType `json:"entity"`
	Payload   any        `json:"payload"`
	Timestamp time.Time  `json:"timestamp"`
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload any) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func LoanCreated(payload any) Event          { return NewEvent(EventTypeCreated, EntityTypeLoan, payload) }
func LoanDeleted(payload any) Event          { return NewEvent(EventTypeDeleted, EntityTypeLoan, payload) }
func PaymentCreated(payload any) Event       { return NewEvent(EventTypeCreated, EntityTypePayment, payload) }
func NotificationCreated(payload any) Event  { return NewEvent(EventTypeCreated, EntityTypeNotification, payload) }
func NotificationResolved(payload any) Event { return NewEvent(EventTypeResolved, EntityTypeNotification, payload) }
func NotificationsRead(payload any) Event    { return NewEvent(EventTypeRead, EntityTypeNotification, payload) }
func NotificationsCleared(payload any) Event { return NewEvent(EventTypeCleared, EntityTypeNotification, payload) }
func WorkspaceImported(payload any) Event    { return NewEvent(EventTypeImported, EntityTypeWorkspace, payload) }
func WorkspaceSynced(payload any) Event      { return NewEvent(EventTypeSynced, EntityTypeWorkspace, payload) }
