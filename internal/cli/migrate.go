package cli

import (
	"context"
	"database/sql"
	"fmt"

	"admission-quiz-service/internal/config"
	pgmigrations "admission-quiz-service/internal/infra/postgres/migrations"
	"admission-quiz-service/internal/logging"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

// NewMigrateCmd applies database migrations.
func NewMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOptional(*configPath)
			if err != nil {
				return err
			}
			return runMigrations(logging.IntoContext(cmd.Context(), newLogger(cfg)), cfg)
		},
	}
}

// runMigrations logs through the logger carried by ctx.
func runMigrations(ctx context.Context, cfg config.Config) error {
	logger := logging.FromContext(ctx)
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	logger.Info().Msg("running migrations")
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return err
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}
	if group.IsZero() {
		logger.Info().Msg("no new migrations")
		return nil
	}
	logger.Info().Str("group", group.String()).Msg("migrations applied")
	return nil
}
