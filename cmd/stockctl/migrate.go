package main

import (
	"context"
	"fmt"
	"time"

	"inventory-tracker/internal/config"
	"inventory-tracker/internal/database"
	"inventory-tracker/internal/logger"

	"github.com/spf13/cobra"
)

func init() {
	migrateCmd := &cobra.Command{
		Use:       "migrate up|status",
		Short:     "Apply or inspect database migrations",
		Long:      "Connects with the same DB_* settings as the API server.",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer log.Sync()

			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			db, err := database.New(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer db.Close()

			if args[0] == "status" {
				return database.GetMigrationStatus(db.DB())
			}
			return database.RunMigrations(db.DB(), log)
		},
	}
	rootCmd.AddCommand(migrateCmd)
}
