package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"healthybychoice/cmd/fx/logger_fx"
	"healthybychoice/internal/config"
	"healthybychoice/internal/infra"
)

func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the Postgres tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := logger_fx.NewLogger(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			defer logger.Sync()

			db, err := infra.InitPostgresql(cfg.PostgresURL, logger)
			if err != nil {
				return err
			}
			defer infra.ClosePostgresql(db, logger)

			if err := infra.AutoMigrate(db); err != nil {
				return fmt.Errorf("auto migrate: %w", err)
			}
			logger.Info("Migration completed", zap.String("store", cfg.SessionStore))
			fmt.Fprintln(cmd.OutOrStdout(), "migration completed")
			return nil
		},
	}
}
