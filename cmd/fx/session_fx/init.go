package session_fx

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"healthybychoice/internal/config"
	"healthybychoice/internal/infra"
	"healthybychoice/internal/repositories"
	"healthybychoice/pkg/utils"
)

var Module = fx.Provide(
	ProvideSessionStore,
	ProvideTransactionRepository,
	ProvideSessionTokens)

func ProvideSessionStore(lc fx.Lifecycle, cfg *config.Config, db *gorm.DB, logger *zap.Logger) (repositories.SessionStore, error) {
	logger.Info("Using session store", zap.String("store", cfg.SessionStore))

	switch cfg.SessionStore {
	case config.SessionStorePostgres:
		return repositories.NewSessionRepository(db), nil
	case config.SessionStoreRedis:
		rdb, err := infra.NewRedisClient(context.Background(), infra.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, logger)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.StopHook(rdb.Close))
		return repositories.NewRedisSessionStore(rdb, cfg.SessionTTL), nil
	default:
		return repositories.NewMemorySessionStore(), nil
	}
}

func ProvideTransactionRepository(db *gorm.DB) repositories.ITransactionRepository {
	if db == nil {
		return repositories.NewMemoryTransactionRepository()
	}
	return repositories.NewTransactionRepository(db)
}

func ProvideSessionTokens(cfg *config.Config, logger *zap.Logger) (*utils.SessionTokens, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		logger.Warn("JWT_SECRET not set, session tokens will not survive a restart")
		secret = uuid.NewString()
	}
	return utils.NewSessionTokens(secret, cfg.SessionTTL)
}
