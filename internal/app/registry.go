package app

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"live-quiz-service/internal/domain"
)

// SessionRepository abstracts where live sessions are indexed by PIN (in-memory, Redis, etc).
type SessionRepository interface {
	// Reserve stores session under pin unless the PIN is already live.
	Reserve(ctx context.Context, pin string, session *Session) (bool, error)
	Get(pin string) (*Session, bool)
	Delete(pin string)
	Len() int
}

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	ListQuizzes(ctx context.Context) ([]domain.QuizSummary, error)
}

// DefaultPinRetryBudget bounds PIN draws per Create call.
const DefaultPinRetryBudget = 64

// RegistryConfig tunes PIN allocation and the sessions a registry builds.
type RegistryConfig struct {
	PinRetryBudget int
	ServerTiming   bool
	// PinSource overrides the random PIN generator.
	PinSource func() string
	Clock     func() time.Time
}

// Registry owns the PIN space: it allocates PINs, builds sessions and retires them.
type Registry struct {
	sessions SessionRepository
	quizzes  QuizRepository
	notifier Notifier
	cfg      RegistryConfig

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRegistry(sessions SessionRepository, quizzes QuizRepository, notifier Notifier, cfg RegistryConfig) *Registry {
	if cfg.PinRetryBudget <= 0 {
		cfg.PinRetryBudget = DefaultPinRetryBudget
	}
	return &Registry{
		sessions: sessions,
		quizzes:  quizzes,
		notifier: notifier,
		cfg:      cfg,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Create resolves quizID and registers a new session owned by adminID under a fresh PIN.
func (r *Registry) Create(ctx context.Context, quizID, adminID string) (*Session, error) {
	// The quiz lookup is the only I/O and runs before any lock is taken.
	quiz, err := r.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, domain.Unavailable(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for attempt := 0; attempt < r.cfg.PinRetryBudget; attempt++ {
		pin := r.nextPIN()
		session := NewSession(pin, quiz, adminID, SessionConfig{
			Notifier:     r.notifier,
			OnRetire:     r.Retire,
			ServerTiming: r.cfg.ServerTiming,
			Clock:        r.cfg.Clock,
		})
		ok, err := r.sessions.Reserve(ctx, pin, session)
		if err != nil {
			return nil, fmt.Errorf("reserve pin: %w", err)
		}
		if ok {
			log.Printf("session %s created for quiz %s", pin, quizID)
			return session, nil
		}
	}
	log.Printf("no free pin after %d attempts", r.cfg.PinRetryBudget)
	return nil, domain.ErrPinSpaceExhausted
}

// Lookup returns the live session for pin.
func (r *Registry) Lookup(pin string) (*Session, error) {
	session, ok := r.sessions.Get(pin)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// Retire drops pin from the registry. Retiring an unknown PIN is a no-op.
func (r *Registry) Retire(pin string) {
	if _, ok := r.sessions.Get(pin); !ok {
		return
	}
	r.sessions.Delete(pin)
	log.Printf("session %s retired", pin)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	return r.sessions.Len()
}

// nextPIN draws uniformly from 0000-9999. Callers hold r.mu.
func (r *Registry) nextPIN() string {
	if r.cfg.PinSource != nil {
		return r.cfg.PinSource()
	}
	return fmt.Sprintf("%04d", r.rnd.Intn(10000))
}
