package app_test

import (
	"sync"
	"time"

	"live-quiz-service/internal/app"
	"live-quiz-service/internal/domain"
	"live-quiz-service/internal/infra/memory"
)

// recorder is an app.Notifier that keeps every event per connection.
type recorder struct {
	mu     sync.Mutex
	events map[string][]domain.Event
}

func newRecorder() *recorder {
	return &recorder{events: make(map[string][]domain.Event)}
}

func (r *recorder) Send(connID string, event domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[connID] = append(r.events[connID], event)
}

// of returns the events of type eventType received by connID.
func (r *recorder) of(connID, eventType string) []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Event
	for _, e := range r.events[connID] {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func (r *recorder) last(connID, eventType string) (domain.Event, bool) {
	events := r.of(connID, eventType)
	if len(events) == 0 {
		return domain.Event{}, false
	}
	return events[len(events)-1], true
}

func mathsQuiz() domain.Quiz {
	return domain.Quiz{
		ID:    "quiz-1",
		Title: "Maths",
		Questions: []domain.Question{
			{Text: "2+2?", Options: []string{"3", "4", "5", "6"}, CorrectIndex: 1},
		},
	}
}

func twoQuestionQuiz() domain.Quiz {
	return domain.Quiz{
		ID:    "quiz-2",
		Title: "Mixed",
		Questions: []domain.Question{
			{Text: "2+2?", Options: []string{"3", "4", "5", "6"}, CorrectIndex: 1},
			{Text: "Capital of France?", Options: []string{"Lyon", "Paris", "Nice", "Lille"}, CorrectIndex: 1},
		},
	}
}

func newSession(quiz domain.Quiz, rec *recorder) *app.Session {
	return app.NewSession("1234", quiz, "admin", app.SessionConfig{Notifier: rec})
}

func newTestService(rec *recorder) (*app.GameService, *app.Registry) {
	quizRepo := memory.NewQuizRepository(memory.NewStaticQuizLoader(map[string]domain.Quiz{
		"quiz-1": mathsQuiz(),
		"quiz-2": twoQuestionQuiz(),
	}), 5*time.Minute)
	registry := app.NewRegistry(memory.NewSessionStore(), quizRepo, rec, app.RegistryConfig{})
	return app.NewGameService(registry, quizRepo), registry
}
