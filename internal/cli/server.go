package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"admission-quiz-service/internal/app"
	"admission-quiz-service/internal/bank"
	"admission-quiz-service/internal/config"
	"admission-quiz-service/internal/gate"
	"admission-quiz-service/internal/infra/memory"
	pgstore "admission-quiz-service/internal/infra/postgres"
	redisstore "admission-quiz-service/internal/infra/redis"
	"admission-quiz-service/internal/logging"
	transport "admission-quiz-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
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
	cfg, err := config.LoadOptional(configPath)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	ctx = logging.IntoContext(ctx, logger)

	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg); err != nil {
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
	attemptTTL := config.TTLDuration(cfg.Redis.TTL, 2*time.Hour)

	var loader memory.BankLoader = bank.NewDirLoader(bankDir(cfg))
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		loader = pgstore.NewBankLoader(pool)
	}

	bankTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var banks app.BankRepository
	var store app.SessionRepository
	if redisClient != nil {
		banks = redisstore.NewBankRepository(redisClient, loader, bankTTL, logger)
		store = redisstore.NewSessionStore(redisClient, attemptTTL)
	} else {
		banks = memory.NewBankRepository(loader, bankTTL)
		store = memory.NewSessionStore()
	}

	emailGate, err := gate.New(cfg.Gate.EmailPattern)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	service := app.NewQuizService(store, banks, emailGate, app.Options{
		TickInterval: config.TTLDuration(cfg.Quiz.TickInterval, time.Second),
		Metrics:      app.NewMetrics(registry),
		Logger:       logger,
	})
	wsHandler := transport.NewWSHandler(service, cfg.Quiz.DefaultBank, logger)

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     transport.NewRouter(wsHandler, registry),
		ReadTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("starting quiz service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info().Msg("shutting down server")
	case <-ctx.Done():
		logger.Info().Msg("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func bankDir(cfg config.Config) string {
	if cfg.Quiz.BankDir != "" {
		return cfg.Quiz.BankDir
	}
	return "banks"
}
