package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"healthybychoice/internal/api/controllers"
	"healthybychoice/internal/config"
	"healthybychoice/pkg/middleware"
	"healthybychoice/pkg/utils"
)

type RouterParams struct {
	fx.In

	Logger  *zap.Logger
	Tokens  *utils.SessionTokens
	Limiter *middleware.RateLimiter
	Config  *config.Config

	QuizController    *controllers.QuizController
	LocaleController  *controllers.LocaleController
	PlansController   *controllers.PlansController
	ReportController  *controllers.ReportController
	PaymentController *controllers.PaymentController
}

func NewRouter(p RouterParams) *gin.Engine {
	// Mode must be set before the engine exists or debug route logging leaks.
	if p.Config.GinMode != "" {
		gin.SetMode(p.Config.GinMode)
	}
	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.LoggerMiddleware(p.Logger))
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.LocaleMiddleware(p.Config.DefaultLocale))

	RegisterRoutes(r, p)
	return r
}

func RegisterRoutes(r *gin.Engine, p RouterParams) {
	auth := middleware.SessionAuthMiddleware(p.Tokens)
	limited := middleware.RateLimitMiddleware(p.Limiter)

	r.GET("/healthz", controllers.Healthz)

	r.GET("/locale", p.LocaleController.GetLocale)
	r.PUT("/locale", middleware.OptionalSessionMiddleware(p.Tokens), p.LocaleController.SetLocale)

	r.GET("/plans", p.PlansController.ListPlans)

	quizGroup := r.Group("/quiz")
	quizGroup.GET("/questions", p.QuizController.ListQuestions)
	quizGroup.POST("/sessions", limited, p.QuizController.StartSession)
	quizGroup.GET("/session", auth, p.QuizController.GetSession)
	quizGroup.DELETE("/session", auth, p.QuizController.RestartSession)
	quizGroup.POST("/concern", auth, limited, p.QuizController.SubmitConcern)
	quizGroup.POST("/answers", auth, limited, p.QuizController.Answer)
	quizGroup.POST("/back", auth, p.QuizController.Back)

	r.GET("/report", auth, limited, p.ReportController.GetReport)

	paymentGroup := r.Group("/payments", auth, limited)
	paymentGroup.POST("/charge", p.PaymentController.Charge)
	paymentGroup.POST("/upgrade", p.PaymentController.Upgrade)
}
