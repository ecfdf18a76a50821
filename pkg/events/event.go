// Package events defines the analytics events published to the message bus.
package events

import "time"

// Event is the contract for everything that goes onto the bus.
type Event interface {
	// EventType returns the unique code for this event (e.g. "TURN_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is a plain implementation for events without extra behavior.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewTurnCompleted records one finished conversation turn for analytics.
// The utterance text itself is deliberately not included.
func NewTurnCompleted(sessionID, intent string, confidence float32, language string, evidenceCount int, fallbackUsed bool, elapsed time.Duration) BaseEvent {
	return BaseEvent{
		Type: "TURN_COMPLETED",
		Data: map[string]interface{}{
			"session_id":     sessionID,
			"intent":         intent,
			"confidence":     confidence,
			"language":       language,
			"evidence_count": evidenceCount,
			"fallback_used":  fallbackUsed,
			"elapsed_ms":     elapsed.Milliseconds(),
		},
		OccurredAt: time.Now(),
	}
}
