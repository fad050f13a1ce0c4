package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents what happened to an entity
type EventType string

const (
	EventTypeCreated EventType = "created"
	EventTypeUpdated EventType = "updated"
	EventTypeDeleted EventType = "deleted"
)

// EntityType represents the kind of entity an event is about
type EntityType string

const (
	EntityTypeCategory       EntityType = "category"
	EntityTypeMovement       EntityType = "movement"
	EntityTypePlannedExpense EntityType = "planned_expense"
	EntityTypeActivityLog    EntityType = "activity_log"
	EntityTypeReceipt        EntityType = "receipt"
)

// Event is the message sent to clients: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"` // e.g. "movement.created"
	Entity    EntityType  `json:"entity"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
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

// Deleted builds the payload of a *.deleted event
func Deleted(id int32) map[string]int32 {
	return map[string]int32{"id": id}
}
