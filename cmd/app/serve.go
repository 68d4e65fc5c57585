package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"healthybychoice/cmd/fx/config_fx"
	"healthybychoice/cmd/fx/controllers_fx"
	"healthybychoice/cmd/fx/db_fx"
	"healthybychoice/cmd/fx/generation_fx"
	"healthybychoice/cmd/fx/i18n_fx"
	"healthybychoice/cmd/fx/logger_fx"
	"healthybychoice/cmd/fx/memcache_fx"
	"healthybychoice/cmd/fx/payment_service_fx"
	"healthybychoice/cmd/fx/quiz_fx"
	"healthybychoice/cmd/fx/report_fx"
	"healthybychoice/cmd/fx/session_fx"
	"healthybychoice/internal/config"
)

func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := NewApp()
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}
}

func NewApp(opts ...fx.Option) *fx.App {
	return fx.New(appOptions(), logger_fx.WithLogger, fx.Options(opts...))
}

func appOptions() fx.Option {
	return fx.Options(
		config_fx.Module,
		logger_fx.Module,
		db_fx.Module,
		session_fx.Module,
		i18n_fx.Module,
		memcache_fx.Module,
		generation_fx.Module,
		quiz_fx.Module,
		report_fx.Module,
		payment_service_fx.Module,
		controllers_fx.Module,

		fx.Invoke(StartServer),
	)
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine, logger *zap.Logger) {
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("Failed to start server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}
