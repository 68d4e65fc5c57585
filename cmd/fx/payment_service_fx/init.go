package payment_service_fx

import (
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"healthybychoice/internal/api/controllers"
	"healthybychoice/internal/config"
	"healthybychoice/internal/repositories"
	"healthybychoice/internal/services"
	mem "healthybychoice/pkg/memcache"
	"healthybychoice/pkg/payments"
)

var Module = fx.Provide(
	ProvideGateway,
	ProvidePaymentService,
	controllers.NewPaymentController)

func ProvideGateway(cfg *config.Config, logger *zap.Logger) payments.Gateway {
	if !cfg.UseSquare() {
		logger.Warn("Square credentials not set, using the fake payment gateway")
		return payments.NewFakeGateway()
	}
	logger.Info("Using Square payments", zap.String("environment", cfg.SquareEnvironment))
	return payments.NewSquareGateway(payments.SquareConfig{
		AccessToken: cfg.SquareAccessToken,
		LocationID:  cfg.SquareLocationID,
		Environment: cfg.SquareEnvironment,
	}, &http.Client{Timeout: cfg.PaymentTimeout})
}

func ProvidePaymentService(
	store repositories.SessionStore,
	txns repositories.ITransactionRepository,
	gateway payments.Gateway,
	guard mem.InflightStore,
	cfg *config.Config,
	logger *zap.Logger,
) services.PaymentService {
	return services.NewPaymentService(store, txns, gateway, guard, cfg.PaymentTimeout, logger)
}
