// Package memory holds the in-process session state store backed by a TTL
// cache. It is the default backend; redisstore is the shared alternative.
package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"maharaja-assistant-be/internal/repository/contract"
	"maharaja-assistant-be/pkg/store"
)

type SessionStateRepository struct {
	cache *cache.Cache
}

var _ contract.SessionStateRepository = &SessionStateRepository{}

// NewSessionStateRepository builds a store whose entries expire after ttl.
// Expired entries are purged at ttl/6, at least every minute.
func NewSessionStateRepository(ttl time.Duration) *SessionStateRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	purge := ttl / 6
	if purge < time.Minute {
		purge = time.Minute
	}
	return &SessionStateRepository{cache: cache.New(ttl, purge)}
}

func (r *SessionStateRepository) Save(session *store.Session) error {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
	return nil
}

func (r *SessionStateRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

func (r *SessionStateRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
