package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"live-quiz-service/internal/app"
	"live-quiz-service/internal/config"
	"live-quiz-service/internal/domain"
	"live-quiz-service/internal/infra/memory"
	pgloader "live-quiz-service/internal/infra/postgres"
	redissession "live-quiz-service/internal/infra/redis"
	"live-quiz-service/internal/infra/sqlite"
	transport "live-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	// Liveness keys outlive any reasonable game; they only guard against PIN reuse.
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 2*time.Hour)

	var loader memory.QuizLoader
	switch {
	case cfg.Postgres.URL != "":
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		loader = pgloader.NewQuizLoader(pool)
	case cfg.SQLite.Path != "":
		sqliteLoader, err := sqlite.NewQuizLoader(cfg.SQLite.Path)
		if err != nil {
			return err
		}
		defer sqliteLoader.Close()
		loader = sqliteLoader
	default:
		loader = memory.NewStaticQuizLoader(sampleQuizzes())
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var quizRepo app.QuizRepository
	if redisClient != nil {
		quizRepo = redissession.NewQuizRepository(redisClient, loader, quizTTL)
	} else {
		quizRepo = memory.NewQuizRepository(loader, quizTTL)
	}

	var store app.SessionRepository
	if redisClient != nil {
		store = redissession.NewSessionStore(redisClient, redisTTL)
	} else {
		store = memory.NewSessionStore()
	}

	hub := transport.NewHub(cfg.Game.SendBuffer)
	registry := app.NewRegistry(store, quizRepo, hub, app.RegistryConfig{
		PinRetryBudget: config.IntOr(cfg.Game.PinRetryBudget, app.DefaultPinRetryBudget),
		ServerTiming:   cfg.Game.ServerTiming,
	})
	if cfg.Game.ServerTiming {
		log.Printf("server-side answer timing enabled; client timeTaken is ignored")
	}
	service := app.NewGameService(registry, quizRepo)
	wsHandler := transport.NewWSHandler(service, hub)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.Handle("/api/quizzes", transport.NewQuizzesHandler(service))

	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("starting quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}
	log.Printf("%d live sessions dropped on shutdown", service.LiveSessions())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleQuizzes is the demo catalogue served when no quiz store is configured and loaded by `seed`.
func sampleQuizzes() map[string]domain.Quiz {
	created := time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)
	return map[string]domain.Quiz{
		"quiz-1": {
			ID:          "quiz-1",
			Title:       "Warm-up arithmetic",
			Description: "Quick sums to get the room going",
			CreatedAt:   created,
			Questions: []domain.Question{
				{Text: "What is 2 + 2?", Options: []string{"3", "4", "5", "6"}, CorrectIndex: 1},
				{Text: "What is 7 x 6?", Options: []string{"42", "36", "48", "56"}, CorrectIndex: 0},
				{Text: "What is 81 / 9?", Options: []string{"7", "8", "10", "9"}, CorrectIndex: 3},
			},
		},
		"quiz-2": {
			ID:        "quiz-2",
			Title:     "Capitals",
			CreatedAt: created.Add(time.Hour),
			Questions: []domain.Question{
				{Text: "Capital of France?", Options: []string{"Lyon", "Paris", "Nice", "Lille"}, CorrectIndex: 1},
				{Text: "Capital of Japan?", Options: []string{"Osaka", "Kyoto", "Tokyo", "Nagoya"}, CorrectIndex: 2},
			},
		},
	}
}
