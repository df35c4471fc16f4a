package memory

import (
	"sync"

	"admission-quiz-service/internal/app"
	"admission-quiz-service/internal/domain"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Acquire(candidate string, session *app.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[candidate]; ok {
		return domain.ErrAttemptInProgress
	}
	s.sessions[candidate] = session
	return nil
}

func (s *SessionStore) Get(candidate string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[candidate]
	return session, ok
}

// Release forgets the candidate's attempt if session still owns the slot.
func (s *SessionStore) Release(candidate string, session *app.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.sessions[candidate]; ok && current == session {
		delete(s.sessions, candidate)
	}
}
