package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"admission-quiz-service/internal/app"
	"admission-quiz-service/internal/domain"
	"admission-quiz-service/internal/gate"
	pgstore "admission-quiz-service/internal/infra/postgres"
	pgmigrations "admission-quiz-service/internal/infra/postgres/migrations"
	infraredis "admission-quiz-service/internal/infra/redis"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

func TestQuizAttemptEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	migrateDB(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	loader := pgstore.NewBankLoader(pool)
	if err := loader.SaveBank(ctx, sampleBank()); err != nil {
		t.Fatalf("save bank: %v", err)
	}

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	banks := infraredis.NewBankRepository(redisClient, loader, 5*time.Minute, zerolog.Nop())
	sessions := infraredis.NewSessionStore(redisClient, 5*time.Minute)
	g, err := gate.New("")
	if err != nil {
		t.Fatalf("gate: %v", err)
	}
	service := app.NewQuizService(sessions, banks, g, app.Options{Logger: zerolog.Nop()})

	const email = "21bce0001@vitstudent.ac.in"
	presenter := &recordingPresenter{}
	session, err := service.Begin(ctx, app.BeginRequest{BankID: "entrance-2026", Email: email}, presenter)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := service.Begin(ctx, app.BeginRequest{BankID: "entrance-2026", Email: email}, &recordingPresenter{}); !errors.Is(err, domain.ErrAttemptInProgress) {
		t.Fatalf("expected attempt in progress, got %v", err)
	}

	if err := session.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	// Round one: 2 x 5 marks, one right. Round two: 1 x 5 marks, right.
	for _, answer := range []string{"B", "A", "A"} {
		if err := session.Submit(ctx, answer); err != nil {
			t.Fatalf("submit %s: %v", answer, err)
		}
	}

	result, ok := session.Result()
	if !ok {
		t.Fatalf("expected quiz to be over")
	}
	if result.Score != 10 || result.TotalMarks != 15 || result.NormalizedScore != 6.67 || result.Tier != domain.TierLowAdmit {
		t.Fatalf("unexpected result %+v", result)
	}
	if got := presenter.shown(); got != 3 {
		t.Fatalf("expected 3 questions shown, got %d", got)
	}

	cached, err := redisClient.Exists(ctx, "quiz:bank:entrance-2026").Result()
	if err != nil || cached != 1 {
		t.Fatalf("expected bank cached in redis, got %d (%v)", cached, err)
	}

	service.Leave(session)
	held, err := redisClient.Exists(ctx, "quiz:attempt:"+email).Result()
	if err != nil || held != 0 {
		t.Fatalf("expected attempt slot released, got %d (%v)", held, err)
	}
}

func TestBankLoaderMissingBank(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	migrateDB(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	if _, err := pgstore.NewBankLoader(pool).LoadBank(ctx, "nope"); !errors.Is(err, domain.ErrBankNotFound) {
		t.Fatalf("expected ErrBankNotFound, got %v", err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
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
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
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
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func migrateDB(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func sampleBank() domain.Bank {
	opts := []domain.Option{{ID: "A", Text: "first"}, {ID: "B", Text: "second"}}
	return domain.Bank{
		ID: "entrance-2026",
		Rounds: []domain.Round{
			{
				Title:            "Aptitude",
				TimeLimitSeconds: 120,
				TotalMarks:       10,
				Questions: []domain.Question{
					{Prompt: "12 x 12?", Options: opts, CorrectOptionID: "B"},
					{Prompt: "Smallest prime?", Options: opts, CorrectOptionID: "B"},
				},
			},
			{
				Title:            "Verbal",
				TimeLimitSeconds: 45,
				TotalMarks:       5,
				Questions: []domain.Question{
					{Prompt: "Synonym of rapid?", Options: opts, CorrectOptionID: "A"},
				},
			},
		},
	}
}

type recordingPresenter struct {
	mu    sync.Mutex
	count int
}

func (p *recordingPresenter) ShowQuestion(domain.ShowQuestion) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count++
}

func (p *recordingPresenter) QuizEnded(domain.QuizEnded) {}

func (p *recordingPresenter) shown() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
