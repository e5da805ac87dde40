package app

import (
	"context"
	"strings"

	"live-quiz-service/internal/domain"
)

// GameService routes connection-level intents to the session that owns a PIN.
type GameService struct {
	registry *Registry
	quizzes  QuizRepository
}

func NewGameService(registry *Registry, quizzes QuizRepository) *GameService {
	return &GameService{registry: registry, quizzes: quizzes}
}

// CreateSession starts a game of quizID administered by adminID and returns its PIN.
func (s *GameService) CreateSession(ctx context.Context, quizID, adminID string) (string, error) {
	session, err := s.registry.Create(ctx, quizID, adminID)
	if err != nil {
		return "", err
	}
	return session.PIN(), nil
}

// Join registers connID as a player named name in the session behind pin.
func (s *GameService) Join(_ context.Context, pin, connID, name string) ([]domain.Standing, error) {
	session, err := s.registry.Lookup(pin)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	return session.Join(connID, name)
}

// Watch attaches a display connection to the room behind pin.
func (s *GameService) Watch(_ context.Context, pin, connID string) error {
	session, err := s.registry.Lookup(pin)
	if err != nil {
		return err
	}
	session.Watch(connID)
	return nil
}

// Advance moves the game behind pin forward; unknown PINs are ignored.
func (s *GameService) Advance(_ context.Context, pin, connID string) AdvanceResult {
	session, err := s.registry.Lookup(pin)
	if err != nil {
		return AdvanceResult{Status: AdvanceIgnored}
	}
	return session.Advance(connID)
}

// SubmitAnswer forwards an answer to the session behind pin.
func (s *GameService) SubmitAnswer(_ context.Context, pin, connID string, optionIndex int, elapsedMs int64) (domain.AnswerResult, bool) {
	session, err := s.registry.Lookup(pin)
	if err != nil {
		return domain.AnswerResult{}, false
	}
	return session.SubmitAnswer(connID, optionIndex, elapsedMs)
}

// Leave removes connID from the session behind pin, if it is still live.
func (s *GameService) Leave(_ context.Context, pin, connID string) {
	session, err := s.registry.Lookup(pin)
	if err != nil {
		return
	}
	session.Leave(connID)
}

// ListQuizzes returns the quizzes an admin can start.
func (s *GameService) ListQuizzes(ctx context.Context) ([]domain.QuizSummary, error) {
	summaries, err := s.quizzes.ListQuizzes(ctx)
	if err != nil {
		return nil, domain.Unavailable(err)
	}
	if summaries == nil {
		summaries = []domain.QuizSummary{}
	}
	return summaries, nil
}

// LiveSessions returns the number of sessions currently registered.
func (s *GameService) LiveSessions() int {
	return s.registry.Len()
}
