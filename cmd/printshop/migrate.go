package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"printshop/internal/config"
	"printshop/internal/storage/sqlstore"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustConfig()
		log := setupLogger(cfg.Env)

		storage, err := sqlstore.New(*cfg)
		if err != nil {
			return err
		}
		defer storage.Close()

		if err := storage.Migrate(cmd.Context()); err != nil {
			return err
		}

		log.Info("schema is up to date", slog.String("driver", cfg.DBDriver))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
