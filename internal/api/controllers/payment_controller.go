package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"healthybychoice/internal/models/request_models"
	"healthybychoice/internal/services"
	"healthybychoice/pkg/middleware"
	"healthybychoice/pkg/utils"
)

type PaymentController struct {
	paymentService services.PaymentService
}

func NewPaymentController(paymentService services.PaymentService) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
	}
}

// Charge godoc
// @Summary Buy a plan
// @Description Charges the card token for the chosen plan and unlocks its sections
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.ChargeRequest true "Charge Request"
// @Success 200 {object} utils.APIResponse
// @Failure 402 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payments/charge [post]
func (p *PaymentController) Charge(c *gin.Context) {
	var request request_models.ChargeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	result, err := p.paymentService.Purchase(c.Request.Context(), c.GetString(middleware.SessionIDKey), request.Plan, request.SourceID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "Payment successful")
}

// Upgrade godoc
// @Summary Upgrade to the complete plan
// @Description Charges the difference between the purchased plan and complete
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.UpgradeRequest true "Upgrade Request"
// @Success 200 {object} utils.APIResponse
// @Failure 402 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payments/upgrade [post]
func (p *PaymentController) Upgrade(c *gin.Context) {
	var request request_models.UpgradeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	result, err := p.paymentService.Upgrade(c.Request.Context(), c.GetString(middleware.SessionIDKey), request.SourceID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "Upgrade successful")
}
