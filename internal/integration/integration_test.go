package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"trivia-game-service/internal/app"
	"trivia-game-service/internal/domain"
	pgbank "trivia-game-service/internal/infra/postgres"
	pgmigrations "trivia-game-service/internal/infra/postgres/migrations"
	infraredis "trivia-game-service/internal/infra/redis"
)

func TestGameFlowEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	migrateAndSeed(t, ctx, pgURL, sampleItems())

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}

	loader := pgbank.NewItemBank(pool)
	bank := infraredis.NewItemBank(redisClient, loader, 5*time.Minute)
	registry := infraredis.NewRegistry(redisClient, 5*time.Minute)
	service := app.NewGameService(registry, bank)

	gameID, alice := service.Create(ctx, "Alice")
	bob, err := service.Join(ctx, gameID, "Bob")
	if err != nil {
		t.Fatalf("join: %v", err)
	}

	if _, err := service.Ready(ctx, gameID, alice); err != nil {
		t.Fatalf("ready alice: %v", err)
	}
	snap, err := service.Ready(ctx, gameID, bob)
	if err != nil {
		t.Fatalf("ready bob: %v", err)
	}
	if !snap.Started || snap.CurrentItem == nil {
		t.Fatalf("expected started game with an item, got %+v", snap)
	}

	// Play the whole item; true/false items keep answers position-proof
	// under shuffling.
	players := []string{alice, bob}
	for i := range snap.CurrentItem.Questions {
		snap, _, err = service.SubmitAnswer(ctx, gameID, players[i%2], i, "true")
		if err != nil && !errors.Is(err, domain.ErrNoUnseenItems) {
			t.Fatalf("submit %d: %v", i, err)
		}
	}

	total := 0
	for _, p := range snap.Players {
		total += p.Score
	}
	if total != 2 {
		t.Fatalf("expected 2 points awarded in total, got %d (%+v)", total, snap.Players)
	}
}

func sampleItems() []domain.Item {
	truth := true
	return []domain.Item{
		{
			ID:     "item-1",
			Prompt: "True or false: astronomy",
			Kind:   domain.KindTrueOrFalse,
			Tags:   []string{"science"},
			Questions: []domain.Question{
				{Text: "The Sun is a star", Truth: &truth},
				{Text: "Jupiter is the largest planet", Truth: &truth},
			},
		},
	}
}

func migrateAndSeed(t *testing.T, ctx context.Context, pgURL string, items []domain.Item) {
	t.Helper()

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(pgURL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrate init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	for _, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			t.Fatalf("marshal item: %v", err)
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO trivia_items (data) VALUES (?)`, string(raw)); err != nil {
			t.Fatalf("seed item: %v", err)
		}
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "trivia", "POSTGRES_PASSWORD": "triviapass", "POSTGRES_DB": "triviadb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://trivia:triviapass@%s:%s/triviadb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	return fmt.Sprintf("redis://%s:%s", host, port.Port()), func() {
		_ = container.Terminate(ctx)
	}
}

func redisClientFromURL(redisURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(opts), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker binary not found")
	}
}
