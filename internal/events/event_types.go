package events

import (
	"time"

	"github.com/spec-kit/gym-entry/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventEntryGranted EventType = "entry_granted"
	EventEntryDenied  EventType = "entry_denied"
)

// RoutingKey maps an event type to its broker routing key.
func (t EventType) RoutingKey() string {
	switch t {
	case EventEntryGranted:
		return "entry.granted"
	case EventEntryDenied:
		return "entry.denied"
	}
	return "entry.unknown"
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string             `json:"id"`
	Type       EventType          `json:"type"`
	SubjectID  string             `json:"subject_id,omitempty"`
	OperatorID string             `json:"operator_id,omitempty"`
	Method     domain.EntryMethod `json:"method"`
	Reason     domain.ReasonCode  `json:"reason"`
	EntryID    string             `json:"entry_id,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
}
