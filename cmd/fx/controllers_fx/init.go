package controllers_fx

import (
	"go.uber.org/fx"

	"healthybychoice/internal/api"
	"healthybychoice/internal/config"
	"healthybychoice/pkg/middleware"
)

var Module = fx.Options(
	fx.Provide(provideRateLimiter),
	fx.Provide(api.NewRouter))

func provideRateLimiter(lc fx.Lifecycle, cfg *config.Config) *middleware.RateLimiter {
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPM)
	lc.Append(fx.StopHook(limiter.Stop))
	return limiter
}
