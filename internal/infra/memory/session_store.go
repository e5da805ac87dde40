package memory

import (
	"context"
	"sync"

	"live-quiz-service/internal/app"
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

func (s *SessionStore) Reserve(_ context.Context, pin string, session *app.Session) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[pin]; ok {
		return false, nil
	}
	s.sessions[pin] = session
	return true, nil
}

func (s *SessionStore) Get(pin string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[pin]
	return session, ok
}

func (s *SessionStore) Delete(pin string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, pin)
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
