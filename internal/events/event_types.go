package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/staff-directory/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventDirectoryRefreshed  EventType = "directory_refreshed"
	EventDirectoryLoadFailed EventType = "directory_load_failed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps a payload with an id and time.
func NewEvent(eventType EventType, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// DirectoryRefreshedPayload carries one completed load cycle's records.
type DirectoryRefreshedPayload struct {
	Records []domain.StaffRecord `json:"records"`
	Origin  domain.LoadOrigin    `json:"origin"`
}

// DirectoryLoadFailedPayload describes a load cycle that produced no records.
type DirectoryLoadFailedPayload struct {
	Reason string `json:"reason"`
}
