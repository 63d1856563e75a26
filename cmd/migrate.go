package main

import (
	"rightssphere/config"
	"rightssphere/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := utils.NewLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			// OpenDB migrates on connect.
			if _, err := config.OpenDB(cfg.DB); err != nil {
				return err
			}
			log.Info("schema migrated", zap.String("driver", cfg.DB.Driver))
			return nil
		},
	}
}
