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

	"trivia-game-service/internal/app"
	"trivia-game-service/internal/config"
	"trivia-game-service/internal/domain"
	"trivia-game-service/internal/infra/memory"
	pgbank "trivia-game-service/internal/infra/postgres"
	redisinfra "trivia-game-service/internal/infra/redis"
	transport "trivia-game-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the trivia game server",
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
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	memoryBank := memory.NewItemBank(sampleItems())
	var loader memory.ItemLoader = memoryBank
	var itemStore transport.ItemStore = memoryBank
	var bank app.ItemBank = memoryBank
	if pool != nil {
		pg := pgbank.NewItemBank(pool)
		loader, itemStore, bank = pg, pg, pg
	}

	bankTTL := config.TTLDuration(cfg.Bank.TTL, 10*time.Minute)
	if redisClient != nil {
		bank = redisinfra.NewItemBank(redisClient, loader, bankTTL)
	}

	var games app.Registry
	if redisClient != nil {
		games = redisinfra.NewRegistry(redisClient, redisTTL)
	} else {
		games = memory.NewRegistry()
	}
	service := app.NewGameService(games, bank)
	wsHandler := transport.NewWSHandler(service)
	gameHandler := transport.NewGameHandler(service)
	itemHandler := transport.NewItemHandler(itemStore)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.HandleFunc("/create-game", gameHandler.CreateGame)
	mux.HandleFunc("/join-game", gameHandler.JoinGame)
	mux.HandleFunc("/active-games", gameHandler.ActiveGames)
	mux.HandleFunc("/trivia", itemHandler.ServeItems)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting trivia game service on :%s", finalPort)
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func boolPtr(b bool) *bool { return &b }
func intPtr(n int) *int    { return &n }

// sampleItems provides a minimal bank so the server is playable without
// Postgres; production deployments load items from the database.
func sampleItems() []domain.Item {
	return []domain.Item{
		{
			ID:         "item-capitals",
			Prompt:     "Match each capital to its country",
			Kind:       domain.KindMultipleChoice,
			Tags:       []string{"geography"},
			Difficulty: domain.DifficultyEasy,
			Choices:    []string{"Paris", "Madrid", "Rome"},
			Questions: []domain.Question{
				{Text: "Capital of France?", Choice: "Paris"},
				{Text: "Capital of Spain?", Choice: "Madrid"},
				{Text: "Capital of Italy?", Choice: "Rome"},
			},
		},
		{
			ID:         "item-space",
			Prompt:     "True or false: space edition",
			Kind:       domain.KindTrueOrFalse,
			Tags:       []string{"science"},
			Difficulty: domain.DifficultyMedium,
			Questions: []domain.Question{
				{Text: "The Sun is a star", Truth: boolPtr(true)},
				{Text: "Mars has two moons", Truth: boolPtr(true)},
				{Text: "Venus is the coldest planet", Truth: boolPtr(false)},
			},
		},
		{
			ID:         "item-rivers",
			Prompt:     "Order these rivers from shortest to longest",
			Kind:       domain.KindOrdering,
			Tags:       []string{"geography"},
			Difficulty: domain.DifficultyHard,
			Questions: []domain.Question{
				{Text: "Thames", Rank: intPtr(1)},
				{Text: "Danube", Rank: intPtr(2)},
				{Text: "Nile", Rank: intPtr(3)},
			},
		},
	}
}
