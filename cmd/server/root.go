package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"cob-tracker/internal/config"
	"cob-tracker/internal/logging"
	"cob-tracker/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "cob-tracker",
	Short: "Track close-of-business shifts",
	Long: `cob-tracker records close-of-business shifts and serves a public
dashboard, an admin panel and the REST API behind them.

Run without a subcommand to start the server.

Environment:
  DATABASE_URL   PostgreSQL connection string
  JWT_SECRET     HMAC key for admin tokens
  PORT           HTTP port (default 5000)
  COB_CONFIG     optional YAML config file`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	config.RegisterFlags(rootCmd.PersistentFlags())
}

// loadConfig resolves settings for cmd and installs the process logger.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	cfg.ApplyFlags(cmd.Flags())

	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	slog.SetDefault(log)
	return cfg, log, nil
}

func retryPolicy(cfg *config.Config) store.RetryPolicy {
	p := store.DefaultRetryPolicy()
	p.MaxRetries = cfg.DBMaxRetries
	return p
}

// connectPool is the blocking connect used by the one-shot commands.
func connectPool(ctx context.Context, cfg *config.Config, log *slog.Logger) (*pgxpool.Pool, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	return store.Connect(ctx, cfg.DatabaseURL, retryPolicy(cfg), log)
}
