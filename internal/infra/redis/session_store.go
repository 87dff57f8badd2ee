package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"lingo-quiz-service/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Sessions stay in a local map so the in-process lock and watcher logic keep
// working; Redis carries a liveness record per session (mode and deadline)
// that expires shortly after the answer window.
type SessionStore struct {
	client *redis.Client
	grace  time.Duration
	now    func() time.Time

	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, grace time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		grace:    grace,
		now:      time.Now,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Put(session *app.Session) {
	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()

	ttl := session.Deadline().Sub(s.now())
	if ttl < 0 {
		ttl = 0
	}
	ttl += s.grace
	if ttl <= 0 {
		ttl = time.Minute
	}
	ctx := context.Background()
	key := s.key(session.ID())
	// best-effort liveness marker
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, "mode", string(session.Mode()), "deadline", session.Deadline().Unix())
	pipe.Expire(ctx, key, ttl)
	_, _ = pipe.Exec(ctx)
}

func (s *SessionStore) Get(sessionID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	return session, ok
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	_ = s.client.Del(context.Background(), s.key(sessionID)).Err()
}

func (s *SessionStore) Drain() []*app.Session {
	s.mu.Lock()
	out := make([]*app.Session, 0, len(s.sessions))
	keys := make([]string, 0, len(s.sessions))
	for id, session := range s.sessions {
		out = append(out, session)
		keys = append(keys, s.key(id))
		delete(s.sessions, id)
	}
	s.mu.Unlock()
	if len(keys) > 0 {
		_ = s.client.Del(context.Background(), keys...).Err()
	}
	return out
}

func (s *SessionStore) key(sessionID string) string {
	return "quiz:session:" + sessionID
}
