package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cob-tracker/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status]",
	Short:     "Apply, roll back or inspect schema migrations",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "status"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		pool, err := connectPool(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer pool.Close()

		action := "up"
		if len(args) == 1 {
			action = args[0]
		}
		switch action {
		case "down":
			err = store.MigrateDown(ctx, pool)
		case "up":
			err = store.Migrate(ctx, pool)
		}
		if err != nil {
			return err
		}

		v, err := store.MigrationVersion(ctx, pool)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", v)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
