package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"live-quiz-service/internal/domain"
)

type quizRow struct {
	bun.BaseModel `bun:"table:quizzes"`

	ID        string      `bun:"id,pk"`
	Data      domain.Quiz `bun:"data,type:jsonb"`
	CreatedAt time.Time   `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// SeedQuizzes upserts quizzes into the quizzes table, validating each first.
func SeedQuizzes(ctx context.Context, db *bun.DB, quizzes []domain.Quiz) error {
	if len(quizzes) == 0 {
		return nil
	}
	rows := make([]quizRow, 0, len(quizzes))
	for _, quiz := range quizzes {
		if err := domain.ValidateQuiz(quiz); err != nil {
			return err
		}
		rows = append(rows, quizRow{ID: quiz.ID, Data: quiz, CreatedAt: quiz.CreatedAt})
	}
	_, err := db.NewInsert().
		Model(&rows).
		On("CONFLICT (id) DO UPDATE").
		Set("data = EXCLUDED.data").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("seed quizzes: %w", err)
	}
	return nil
}
