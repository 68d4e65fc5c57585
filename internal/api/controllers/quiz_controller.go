package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"healthybychoice/internal/models/request_models"
	"healthybychoice/internal/services"
	"healthybychoice/pkg/i18n"
	"healthybychoice/pkg/middleware"
	"healthybychoice/pkg/utils"
)

type QuizController struct {
	quizService services.QuizServiceInterface
	tr          *i18n.Translator
}

func NewQuizController(quizService services.QuizServiceInterface, tr *i18n.Translator) *QuizController {
	return &QuizController{quizService: quizService, tr: tr}
}

// ListQuestions godoc
// @Summary List quiz questions
// @Description Localized questionnaire in presentation order
// @Tags Quiz
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /quiz/questions [get]
func (q *QuizController) ListQuestions(c *gin.Context) {
	utils.RespondSuccess(c, services.QuestionCatalog(q.tr, middleware.GetLocale(c)), "Questions retrieved successfully")
}

// StartSession godoc
// @Summary Start a quiz session
// @Description Creates a session and returns its token with the welcome message
// @Tags Quiz
// @Accept json
// @Produce json
// @Param request body request_models.StartSessionRequest false "Start Session Request"
// @Success 201 {object} utils.APIResponse
// @Router /quiz/sessions [post]
func (q *QuizController) StartSession(c *gin.Context) {
	var req request_models.StartSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
			return
		}
	}

	locale := middleware.GetLocale(c)
	if l, ok := i18n.ParseLocale(req.Locale); ok {
		locale = l
	}

	started, err := q.quizService.Start(c.Request.Context(), locale)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondWithCode(c, http.StatusCreated, started, "Session started")
}

// GetSession godoc
// @Summary Current session state
// @Tags Quiz
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /quiz/session [get]
func (q *QuizController) GetSession(c *gin.Context) {
	view, err := q.quizService.Current(c.Request.Context(), c.GetString(middleware.SessionIDKey))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, view, "")
}

// RestartSession godoc
// @Summary Restart the quiz
// @Description Drops the session and starts a new one in the same locale
// @Tags Quiz
// @Produce json
// @Success 201 {object} utils.APIResponse
// @Security BearerAuth
// @Router /quiz/session [delete]
func (q *QuizController) RestartSession(c *gin.Context) {
	started, err := q.quizService.Restart(c.Request.Context(), c.GetString(middleware.SessionIDKey))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondWithCode(c, http.StatusCreated, started, "Session restarted")
}

// SubmitConcern godoc
// @Summary Submit the main concern
// @Tags Quiz
// @Accept json
// @Produce json
// @Param request body request_models.ConcernRequest true "Concern Request"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /quiz/concern [post]
func (q *QuizController) SubmitConcern(c *gin.Context) {
	var req request_models.ConcernRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	view, err := q.quizService.SubmitConcern(c.Request.Context(), c.GetString(middleware.SessionIDKey), req.Concern)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, view, "")
}

// Answer godoc
// @Summary Answer the current question
// @Tags Quiz
// @Accept json
// @Produce json
// @Param request body request_models.AnswerRequest true "Answer Request"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /quiz/answers [post]
func (q *QuizController) Answer(c *gin.Context) {
	var req request_models.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	view, err := q.quizService.Answer(c.Request.Context(), c.GetString(middleware.SessionIDKey), req.Option)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, view, "")
}

// Back godoc
// @Summary Go back one question
// @Tags Quiz
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /quiz/back [post]
func (q *QuizController) Back(c *gin.Context) {
	view, err := q.quizService.Back(c.Request.Context(), c.GetString(middleware.SessionIDKey))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, view, "")
}
