package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"admission-quiz-service/internal/app"
	"admission-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the attempt key only if it still holds our session ID.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

// SessionStore enforces one live attempt per candidate across instances.
// Notes:
//   - The attempt slot is a Redis key set with SETNX and a TTL, so a crashed
//     instance cannot lock a candidate out forever.
//   - Session values stay in a local map; the loop that owns a session can
//     only run in the process that created it.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Acquire(candidate string, session *app.Session) error {
	ok, err := s.client.SetNX(context.Background(), s.key(candidate), session.ID(), s.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire attempt slot: %w", err)
	}
	if !ok {
		return domain.ErrAttemptInProgress
	}

	s.mu.Lock()
	s.sessions[candidate] = session
	s.mu.Unlock()
	return nil
}

func (s *SessionStore) Get(candidate string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[candidate]
	return session, ok
}

func (s *SessionStore) Release(candidate string, session *app.Session) {
	s.mu.Lock()
	if current, ok := s.sessions[candidate]; ok && current == session {
		delete(s.sessions, candidate)
	}
	s.mu.Unlock()
	// best-effort; the TTL clears the slot otherwise
	_ = releaseScript.Run(context.Background(), s.client, []string{s.key(candidate)}, session.ID()).Err()
}

func (s *SessionStore) key(candidate string) string {
	return "quiz:attempt:" + candidate
}
