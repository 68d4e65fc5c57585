package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"healthybychoice/internal/models/request_models"
	"healthybychoice/internal/models/response_models"
	"healthybychoice/internal/services"
	"healthybychoice/pkg/i18n"
	"healthybychoice/pkg/middleware"
	"healthybychoice/pkg/utils"
)

// localeCookieMaxAge keeps the preference for a year.
const localeCookieMaxAge = 365 * 24 * 60 * 60

type LocaleController struct {
	quizService services.QuizServiceInterface
}

func NewLocaleController(quizService services.QuizServiceInterface) *LocaleController {
	return &LocaleController{quizService: quizService}
}

// GetLocale godoc
// @Summary Resolved locale
// @Tags Locale
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /locale [get]
func (l *LocaleController) GetLocale(c *gin.Context) {
	utils.RespondSuccess(c, localeView(middleware.GetLocale(c)), "")
}

// SetLocale godoc
// @Summary Persist the locale preference
// @Description Stores the preference cookie and, with a session token, the session locale
// @Tags Locale
// @Accept json
// @Produce json
// @Param request body request_models.LocaleRequest true "Locale Request"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /locale [put]
func (l *LocaleController) SetLocale(c *gin.Context) {
	var req request_models.LocaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	locale, err := l.quizService.SetLocale(c.Request.Context(), c.GetString(middleware.SessionIDKey), req.Locale)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.LocaleCookie, string(locale), localeCookieMaxAge, "/", "", false, false)
	utils.RespondSuccess(c, localeView(locale), "Locale updated")
}

func localeView(locale i18n.Locale) response_models.LocaleView {
	supported := make([]string, 0, len(i18n.Supported))
	for _, s := range i18n.Supported {
		supported = append(supported, string(s))
	}
	return response_models.LocaleView{Locale: string(locale), Supported: supported}
}
