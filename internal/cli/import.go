package cli

import (
	"fmt"

	"admission-quiz-service/internal/bank"
	"admission-quiz-service/internal/config"
	"admission-quiz-service/internal/engine"
	pgstore "admission-quiz-service/internal/infra/postgres"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
)

// NewImportCmd validates a bank file and stores it in Postgres.
func NewImportCmd(configPath *string) *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "import <bank-file>",
		Short: "Validate a question bank file and store it in Postgres",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOptional(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}
			logger := newLogger(cfg)

			b, err := bank.ReadFile(args[0])
			if err != nil {
				return err
			}
			if id != "" {
				b.ID = id
			}
			if err := engine.Validate(b.Rounds); err != nil {
				return err
			}

			ctx := cmd.Context()
			pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := pgstore.NewBankLoader(pool).SaveBank(ctx, b); err != nil {
				return err
			}
			logger.Info().Str("bank_id", b.ID).Int("rounds", len(b.Rounds)).Msg("bank imported")
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "bank id (defaults to the file name)")
	return cmd
}
