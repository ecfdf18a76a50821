// Package redisstore is the Redis-backed session state store, selected by
// SESSION_STORE=redis. State is JSON so multiple instances can share it.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"maharaja-assistant-be/internal/repository/contract"
	"maharaja-assistant-be/pkg/store"
)

type SessionStateRepository struct {
	client *redis.Client
	ttl    time.Duration
}

var _ contract.SessionStateRepository = &SessionStateRepository{}

func NewSessionStateRepository(client *redis.Client, ttl time.Duration) *SessionStateRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionStateRepository{client: client, ttl: ttl}
}

func key(sessionID string) string {
	return "session_state:" + sessionID
}

func (r *SessionStateRepository) Save(session *store.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session state: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := r.client.Set(ctx, key(session.ID), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("save session state: %w", err)
	}
	return nil
}

func (r *SessionStateRepository) Get(sessionID string) (*store.Session, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	payload, err := r.client.Get(ctx, key(sessionID)).Bytes()
	if err != nil {
		return nil, false
	}

	var session store.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, false
	}
	return &session, true
}

func (r *SessionStateRepository) Delete(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	r.client.Del(ctx, key(sessionID))
}
