package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RestartURL is where a visitor without results is sent.
const RestartURL = "/quiz"

// UpgradeURL is the only purchase path once a plan is held.
const UpgradeURL = "/payments/upgrade"

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	RespondWithCode(c, http.StatusOK, data, message)
}

func RespondWithCode(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	RespondErrorWithData(c, code, message, nil)
}

func RespondErrorWithData(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

// HandleServiceError maps service sentinel errors onto HTTP responses.
func HandleServiceError(c *gin.Context, err error) {
	var payErr *PaymentError

	switch {
	case errors.As(err, &payErr):
		RespondErrorWithData(c, http.StatusPaymentRequired, payErr.Reason, gin.H{"reason": payErr.Reason})
	case errors.Is(err, ErrPaymentFailed):
		RespondErrorWithData(c, http.StatusPaymentRequired, "Payment failed", gin.H{"reason": "Payment failed"})
	case errors.Is(err, ErrNoQuizResults):
		RespondErrorWithData(c, http.StatusNotFound, "No quiz results found", gin.H{"restart_url": RestartURL})
	case errors.Is(err, ErrSessionNotFound):
		RespondError(c, http.StatusNotFound, "Session not found")
	case errors.Is(err, ErrInvalidOption):
		RespondError(c, http.StatusBadRequest, "Invalid option for current question")
	case errors.Is(err, ErrEmptyConcern):
		RespondError(c, http.StatusBadRequest, "Concern must not be empty")
	case errors.Is(err, ErrUnsupportedLocale):
		RespondError(c, http.StatusBadRequest, "Unsupported locale")
	case errors.Is(err, ErrInvalidInput):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrSessionBusy):
		RespondError(c, http.StatusConflict, "Please wait for the current message to finish")
	case errors.Is(err, ErrWrongPhase):
		RespondError(c, http.StatusConflict, "Operation not allowed at this point of the quiz")
	case errors.Is(err, ErrNoPreviousQuestion):
		RespondError(c, http.StatusConflict, "Already at the first question")
	case errors.Is(err, ErrPlanDowngrade):
		RespondError(c, http.StatusConflict, "You already have this plan or a higher one")
	case errors.Is(err, ErrAlreadyPurchased):
		RespondErrorWithData(c, http.StatusConflict, "A plan was already purchased; use the upgrade offer", gin.H{"upgrade_url": UpgradeURL})
	case errors.Is(err, ErrNoUpgradeAvailable):
		RespondError(c, http.StatusConflict, "No upgrade available for your plan")
	case errors.Is(err, ErrUnauthorized):
		RespondError(c, http.StatusUnauthorized, "Invalid or expired session token")
	case errors.Is(err, ErrRateLimited):
		RespondError(c, http.StatusTooManyRequests, "Rate limit exceeded")
	case errors.Is(err, ErrDatabaseError):
		zap.L().Error("database error", zap.String("trace_id", c.GetString("trace_id")), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		zap.L().Error("unhandled service error", zap.String("trace_id", c.GetString("trace_id")), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
