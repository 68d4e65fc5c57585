package db_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"healthybychoice/internal/config"
	"healthybychoice/internal/infra"
)

var Module = fx.Provide(
	provideDB)

// provideDB returns nil when no POSTGRES_URL is configured; stores fall back
// to memory in that case.
func provideDB(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	if cfg.PostgresURL == "" {
		logger.Warn("POSTGRES_URL not set, transactions are kept in memory")
		return nil, nil
	}
	db, err := infra.InitPostgresql(cfg.PostgresURL, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(func() {
		infra.ClosePostgresql(db, logger)
	}))
	return db, nil
}
