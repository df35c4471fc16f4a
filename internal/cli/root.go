package cli

import (
	"os"

	"admission-quiz-service/internal/config"
	"admission-quiz-service/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const appName = "admission-quiz"

var (
	port       string
	configPath string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:          "admission-quiz",
		Short:        "Timed multi-round admission quiz",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&port, "port", "", "port to listen on (overrides config)")
	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.AddCommand(NewStartCmd(&configPath, &port))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	cmd.AddCommand(NewImportCmd(&configPath))
	cmd.AddCommand(NewPlayCmd(&configPath))
	return cmd
}

func newLogger(cfg config.Config) zerolog.Logger {
	env := cfg.Log.Env
	if env == "" {
		env = "development"
	}
	return logging.New(appName, env, cfg.Log.Level)
}
