package migrations

import (
	"context"
	_ "embed"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// Migrations is the Postgres quiz catalogue schema. `quiz-service migrate`, `seed`
// and `start` apply it before touching the store.
var Migrations = migrate.NewMigrations()

// quizzesDDL creates the quizzes table: one JSONB document per quiz, listed newest first.
//
//go:embed 0001_create_quizzes.sql
var quizzesDDL string

func init() {
	Migrations.MustRegister(createQuizCatalogue, dropQuizCatalogue)
}

func createQuizCatalogue(ctx context.Context, db *bun.DB) error {
	_, err := db.ExecContext(ctx, quizzesDDL)
	return err
}

// dropQuizCatalogue also discards every seeded quiz. Live games hold their
// quiz in memory and are unaffected.
func dropQuizCatalogue(ctx context.Context, db *bun.DB) error {
	_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS quizzes`)
	return err
}
