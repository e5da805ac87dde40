package redis

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"live-quiz-service/internal/app"
)

// releaseTimeout bounds the background DEL of a retired PIN's liveness key.
const releaseTimeout = 2 * time.Second

// releaseScript deletes a liveness key only while it still holds our claim, so a
// late release never wipes a PIN that has since been claimed again.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Session state stays in the local map; the process is the only authority
//     over a live game.
//   - Redis holds one liveness key per PIN, claimed with SETNX, so PINs still
//     held by another instance (or not yet expired after a crash) are skipped.
//   - No Redis round trip happens under mu: lookups for live games never wait
//     on the network.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration

	mu       sync.RWMutex
	sessions map[string]*app.Session
	claims   map[string]string

	// releases tracks background key releases; tests wait on it.
	releases sync.WaitGroup
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
		claims:   make(map[string]string),
	}
}

// Reserve claims the PIN in Redis first and only then publishes the session locally.
func (s *SessionStore) Reserve(ctx context.Context, pin string, session *app.Session) (bool, error) {
	if _, ok := s.Get(pin); ok {
		return false, nil
	}

	claim := session.QuizID() + ":" + uuid.NewString()
	claimed, err := s.client.SetNX(ctx, s.key(pin), claim, s.ttl).Result()
	if err != nil {
		return false, err
	}
	if !claimed {
		return false, nil
	}

	s.mu.Lock()
	_, taken := s.sessions[pin]
	if !taken {
		s.sessions[pin] = session
		s.claims[pin] = claim
	}
	s.mu.Unlock()

	if taken {
		s.release(pin, claim)
		return false, nil
	}
	return true, nil
}

func (s *SessionStore) Get(pin string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[pin]
	return session, ok
}

// Delete drops the session immediately; the liveness key is released in the background.
func (s *SessionStore) Delete(pin string) {
	s.mu.Lock()
	claim, ok := s.claims[pin]
	delete(s.sessions, pin)
	delete(s.claims, pin)
	s.mu.Unlock()
	if ok {
		s.release(pin, claim)
	}
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionStore) release(pin, claim string) {
	s.releases.Add(1)
	go func() {
		defer s.releases.Done()
		ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()
		if err := releaseScript.Run(ctx, s.client, []string{s.key(pin)}, claim).Err(); err != nil {
			// the key still expires after ttl
			log.Printf("release pin %s: %v", pin, err)
		}
	}()
}

func (s *SessionStore) key(pin string) string {
	return "quiz:session:" + pin
}
