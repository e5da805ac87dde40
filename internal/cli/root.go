package cli

import (
	"os"

	"github.com/spf13/cobra"
)

const defaultConfigPath = "config/config.yaml"

var (
	port       string
	configPath string
)

// Execute runs the quiz-service command tree.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz-service",
		Short: "Host live quiz games that players join with a 4-digit PIN",
		Long: `quiz-service runs live quiz rooms over websockets.

An admin opens a room for a stored quiz and receives a PIN; players join with
that PIN and a display name, answer each question against the clock and see
the leaderboard after every round. Quizzes come from Postgres, SQLite or the
bundled demo catalogue.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&port, "port", os.Getenv("PORT"), "port to listen on (overrides server.port)")
	cmd.PersistentFlags().StringVar(&configPath, "config", configPathFromEnv(), "path to YAML config")
	cmd.AddCommand(
		NewStartCmd(&configPath, &port),
		NewMigrateCmd(&configPath),
		NewSeedCmd(&configPath),
	)
	return cmd
}

func configPathFromEnv() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return defaultConfigPath
}
