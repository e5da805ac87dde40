package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"live-quiz-service/internal/config"
	"live-quiz-service/internal/domain"
	"live-quiz-service/internal/infra/postgres"
	"live-quiz-service/internal/infra/sqlite"
)

// NewSeedCmd loads the bundled sample quizzes into the configured quiz store.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert sample quizzes into Postgres or SQLite",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return seedWithConfig(cmd.Context(), cfg, sampleQuizzes())
		},
	}
}

func seedWithConfig(ctx context.Context, cfg config.Config, quizzes map[string]domain.Quiz) error {
	list := make([]domain.Quiz, 0, len(quizzes))
	for _, quiz := range quizzes {
		list = append(list, quiz)
	}

	switch {
	case cfg.Postgres.URL != "":
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
		db, err := openBunDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := postgres.SeedQuizzes(ctx, db, list); err != nil {
			return err
		}
	case cfg.SQLite.Path != "":
		loader, err := sqlite.NewQuizLoader(cfg.SQLite.Path)
		if err != nil {
			return err
		}
		defer loader.Close()
		for _, quiz := range list {
			if err := loader.SaveQuiz(ctx, quiz); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("no quiz store configured: set postgres.url or sqlite.path")
	}
	log.Printf("seeded %d quizzes", len(list))
	return nil
}
