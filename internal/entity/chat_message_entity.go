package entity

import (
	"time"

	"github.com/google/uuid"
)

// Message roles
const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
)

// ChatMessage is one immutable turn of a conversation. Payload carries the
// structured result snapshot (flight options or policy context) attached to
// assistant turns, for history rendering.
type ChatMessage struct {
	Id               uuid.UUID
	ChatSessionId    uuid.UUID
	Role             string
	Text             string
	DetectedLanguage string // "en" | "hi" | ""
	Payload          []byte // JSON, may be nil
	CreatedAt        time.Time
	DeletedAt        *time.Time
	IsDeleted        bool
}
