package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	Title string `json:"title" validate:"max=120"`
}

type CreateSessionResponse struct {
	Id uuid.UUID `json:"id"`
}

type GetAllSessionsResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type GetChatHistoryResponse struct {
	Id               uuid.UUID `json:"id"`
	Role             string    `json:"role"`
	Chat             string    `json:"chat"`
	DetectedLanguage string    `json:"detected_language,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type SendChatRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id" validate:"required"`
	Chat          string    `json:"chat" validate:"max=4000"`
	Country       string    `json:"country,omitempty" validate:"omitempty,len=2"`
}

type SendChatResponseChat struct {
	Id        uuid.UUID `json:"id"`
	Chat      string    `json:"chat"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type SendChatResponse struct {
	ChatSessionId    uuid.UUID             `json:"chat_session_id"`
	ChatSessionTitle string                `json:"title"`
	Sent             *SendChatResponseChat `json:"sent"`
	Reply            *SendChatResponseChat `json:"reply"`
	Intent           string                `json:"intent"`
	Confidence       float32               `json:"confidence"`
	DetectedLanguage string                `json:"detected_language"`
	EvidenceCount    int                   `json:"evidence_count"`
	FallbackUsed     bool                  `json:"fallback_used"`
	ElapsedMs        int64                 `json:"elapsed_ms"`
}

type DeleteSessionRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id"`
}

// EngineStatsResponse reports counters accumulated since process start
type EngineStatsResponse struct {
	TotalTurns     int64            `json:"total_turns"`
	FallbackTurns  int64            `json:"fallback_turns"`
	IntentCounts   map[string]int64 `json:"intent_counts"`
	ActiveSessions int              `json:"active_sessions"`
	AvgElapsedMs   int64            `json:"avg_elapsed_ms"`
}
