package contract

import "maharaja-assistant-be/pkg/store"

// SessionStateRepository holds the volatile per-conversation state the engine
// needs between turns. Implementations expire entries by TTL. Save returning
// an error is recoverable: the engine continues the turn with its in-memory
// copy and logs the degraded continuity.
type SessionStateRepository interface {
	Save(session *store.Session) error
	Get(sessionID string) (*store.Session, bool)
	Delete(sessionID string)
}
