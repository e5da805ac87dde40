package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"live-quiz-service/internal/domain"
	_ "modernc.org/sqlite"
)

// QuizLoader serves quiz documents from a local SQLite file, for single-box
// deployments without Postgres.
type QuizLoader struct {
	db *sql.DB
}

func NewQuizLoader(path string) (*QuizLoader, error) {
	if strings.TrimSpace(path) == "" {
		path = "quiz.db"
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	loader := &QuizLoader{db: db}
	if err := loader.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return loader, nil
}

func (l *QuizLoader) Close() error {
	return l.db.Close()
}

func (l *QuizLoader) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS quizzes (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			question_count INTEGER NOT NULL,
			data TEXT NOT NULL,
			created_at_unix INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_quizzes_created_at ON quizzes(created_at_unix DESC);`,
	}
	for _, stmt := range statements {
		if _, err := l.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveQuiz upserts quiz after validating it.
func (l *QuizLoader) SaveQuiz(ctx context.Context, quiz domain.Quiz) error {
	if err := domain.ValidateQuiz(quiz); err != nil {
		return err
	}
	if quiz.CreatedAt.IsZero() {
		quiz.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}
	_, err = l.db.ExecContext(ctx, `
		INSERT INTO quizzes (id, title, question_count, data, created_at_unix)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			question_count = excluded.question_count,
			data = excluded.data`,
		quiz.ID, quiz.Title, len(quiz.Questions), string(data), quiz.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("save quiz: %w", err)
	}
	return nil
}

func (l *QuizLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	var raw string
	err := l.db.QueryRowContext(ctx, `SELECT data FROM quizzes WHERE id = ?`, quizID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}
	var quiz domain.Quiz
	if err := json.Unmarshal([]byte(raw), &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("unmarshal quiz: %w", err)
	}
	if err := domain.ValidateQuiz(quiz); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

func (l *QuizLoader) ListQuizzes(ctx context.Context) ([]domain.QuizSummary, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, title, question_count, created_at_unix
		FROM quizzes
		ORDER BY created_at_unix DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	var summaries []domain.QuizSummary
	for rows.Next() {
		var (
			s       domain.QuizSummary
			created int64
		)
		if err := rows.Scan(&s.ID, &s.Title, &s.QuestionCount, &created); err != nil {
			return nil, fmt.Errorf("scan quiz summary: %w", err)
		}
		s.CreatedAt = time.Unix(created, 0).UTC()
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
