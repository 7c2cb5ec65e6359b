package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType is a type that represents the type of a session lifecycle event
type EventType string

const (
	EventTypeSessionCompleted EventType = "SessionCompleted"
	EventTypeSessionAborted   EventType = "SessionAborted"
	EventTypeSessionExpired   EventType = "SessionExpired"
)

// SessionEvent is a struct that represents a session lifecycle notification
type SessionEvent struct {
	Type       EventType `json:"type"`
	SessionID  uuid.UUID `json:"session_id"`
	OwnerID    string    `json:"owner_id"`
	TargetKey  string    `json:"target_key"`
	OccurredAt time.Time `json:"occurred_at"`
}
