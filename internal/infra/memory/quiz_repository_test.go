package memory

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"live-quiz-service/internal/domain"
)

func TestQuizRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		QuizLoader: NewStaticQuizLoader(map[string]domain.Quiz{
			"quiz-1": sampleQuiz(),
		}),
	}
	repo := NewQuizRepository(loader, time.Minute)

	if _, err := repo.GetQuiz(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.calls.Load() != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls.Load())
	}

	quiz, err := repo.GetQuiz(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("get quiz 2: %v", err)
	}
	if loader.calls.Load() != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls.Load())
	}
	if len(quiz.Questions) != 1 || quiz.Questions[0].CorrectIndex != 1 {
		t.Fatalf("unexpected cached quiz %+v", quiz)
	}
}

func TestQuizRepositoryExpires(t *testing.T) {
	loader := &countingLoader{
		QuizLoader: NewStaticQuizLoader(map[string]domain.Quiz{"quiz-1": sampleQuiz()}),
	}
	repo := NewQuizRepository(loader, time.Minute)
	now := time.Now()
	repo.clock = func() time.Time { return now }

	_, _ = repo.GetQuiz(context.Background(), "quiz-1")
	now = now.Add(2 * time.Minute)
	_, _ = repo.GetQuiz(context.Background(), "quiz-1")
	if loader.calls.Load() != 2 {
		t.Fatalf("expected reload after ttl, loader calls %d", loader.calls.Load())
	}
}

func TestQuizRepositoryNotFound(t *testing.T) {
	repo := NewQuizRepository(NewStaticQuizLoader(nil), time.Minute)
	if _, err := repo.GetQuiz(context.Background(), "missing"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestStaticQuizLoaderRejectsInvalid(t *testing.T) {
	bad := sampleQuiz()
	bad.Questions[0].Options = []string{"only", "three", "options"}
	loader := NewStaticQuizLoader(map[string]domain.Quiz{"quiz-1": bad})
	if _, err := loader.LoadQuiz(context.Background(), "quiz-1"); !errors.Is(err, domain.ErrInvalidQuiz) {
		t.Fatalf("expected ErrInvalidQuiz, got %v", err)
	}
}

func TestStaticQuizLoaderListsNewestFirst(t *testing.T) {
	older := sampleQuizWithID("quiz-old")
	older.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := sampleQuizWithID("quiz-new")
	newer.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	loader := NewStaticQuizLoader(map[string]domain.Quiz{older.ID: older, newer.ID: newer})
	summaries, err := loader.ListQuizzes(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(summaries) != 2 || summaries[0].ID != "quiz-new" || summaries[1].ID != "quiz-old" {
		t.Fatalf("unexpected order %+v", summaries)
	}
	if summaries[0].QuestionCount != 1 {
		t.Fatalf("expected question count 1, got %d", summaries[0].QuestionCount)
	}
}

type countingLoader struct {
	QuizLoader
	calls atomic.Int32
}

func (l *countingLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	l.calls.Add(1)
	return l.QuizLoader.LoadQuiz(ctx, quizID)
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID:    "quiz-1",
		Title: "Maths",
		Questions: []domain.Question{
			{
				Text:         "What is 2 + 2?",
				Options:      []string{"3", "4", "5", "6"},
				CorrectIndex: 1,
			},
		},
	}
}
