package quiz_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"healthybychoice/internal/api/controllers"
	"healthybychoice/internal/config"
	"healthybychoice/internal/quiz"
	"healthybychoice/internal/repositories"
	"healthybychoice/internal/services"
	"healthybychoice/pkg/i18n"
	mem "healthybychoice/pkg/memcache"
	"healthybychoice/pkg/utils"
)

var Module = fx.Provide(
	ProvideQuizService,
	controllers.NewQuizController,
	controllers.NewLocaleController,
	controllers.NewPlansController)

func ProvideQuizService(
	store repositories.SessionStore,
	commentary services.CommentaryServiceInterface,
	tr *i18n.Translator,
	tokens *utils.SessionTokens,
	guard mem.InflightStore,
	cfg *config.Config,
	logger *zap.Logger,
) services.QuizServiceInterface {
	return services.NewQuizService(store, commentary, tr, tokens, guard, services.QuizConfig{
		Timing: quiz.Timing{
			AdvanceDelay:   cfg.AdvanceDelay,
			TypingInterval: cfg.TypingInterval,
		},
		AITimeout: cfg.AITimeout,
	}, logger)
}
