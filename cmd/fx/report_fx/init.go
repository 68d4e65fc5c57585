package report_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"healthybychoice/internal/api/controllers"
	"healthybychoice/internal/config"
	"healthybychoice/internal/repositories"
	"healthybychoice/internal/services"
	"healthybychoice/pkg/i18n"
	mem "healthybychoice/pkg/memcache"
)

var Module = fx.Provide(
	ProvideReportService,
	controllers.NewReportController)

func ProvideReportService(
	store repositories.SessionStore,
	commentary services.CommentaryServiceInterface,
	tr *i18n.Translator,
	guard mem.InflightStore,
	cfg *config.Config,
	logger *zap.Logger,
) services.ReportServiceInterface {
	return services.NewReportService(store, commentary, tr, guard, cfg.AITimeout, logger)
}
