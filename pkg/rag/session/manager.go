// Package session manages the lifecycle of conversations: the durable
// ChatSession row and the volatile in-memory state that backs follow-ups.
package session

import (
	"context"
	"fmt"
	"time"

	"maharaja-assistant-be/internal/entity"
	"maharaja-assistant-be/internal/repository/contract"
	"maharaja-assistant-be/internal/repository/specification"
	"maharaja-assistant-be/internal/repository/unitofwork"
	"maharaja-assistant-be/pkg/store"

	"github.com/google/uuid"
)

type Manager struct {
	stateRepo contract.SessionStateRepository
}

func NewManager(stateRepo contract.SessionStateRepository) *Manager {
	return &Manager{stateRepo: stateRepo}
}

// LoadOrCreate returns the in-memory state for a session, fresh and empty
// when none exists. Reading never fails; an expired or missing entry just
// means a session without follow-up context.
func (m *Manager) LoadOrCreate(sessionId uuid.UUID) *store.Session {
	sessionID := sessionId.String()
	session, found := m.stateRepo.Get(sessionID)
	if !found {
		session = &store.Session{ID: sessionID}
	}
	return session
}

// Save writes the state back. The error is recoverable: the caller keeps its
// in-memory copy for the rest of the turn.
func (m *Manager) Save(session *store.Session) error {
	return m.stateRepo.Save(session)
}

// Expire drops the in-memory state for a session
func (m *Manager) Expire(sessionId uuid.UUID) {
	m.stateRepo.Delete(sessionId.String())
}

// VerifyChatSession confirms the durable session row exists
func (m *Manager) VerifyChatSession(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID) (*entity.ChatSession, error) {
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("session not found")
	}
	return session, nil
}

// UpdateTitle sets the session title, typically from the first user turn
func (m *Manager) UpdateTitle(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.ChatSession, title string, now time.Time) error {
	session.Title = title
	session.UpdatedAt = &now
	return uow.ChatSessionRepository().Update(ctx, session)
}
