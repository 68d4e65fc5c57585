package controllers

import (
	"github.com/gin-gonic/gin"

	"healthybychoice/internal/models/response_models"
	"healthybychoice/internal/plans"
	"healthybychoice/internal/services"
	"healthybychoice/pkg/i18n"
	"healthybychoice/pkg/middleware"
	"healthybychoice/pkg/utils"
)

type PlansController struct {
	tr *i18n.Translator
}

func NewPlansController(tr *i18n.Translator) *PlansController {
	return &PlansController{tr: tr}
}

// ListPlans godoc
// @Summary Plan catalogue
// @Description Prices, localized features and upgrade prices for every tier
// @Tags Plans
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /plans [get]
func (p *PlansController) ListPlans(c *gin.Context) {
	locale := middleware.GetLocale(c)
	utils.RespondSuccess(c, response_models.PlanCatalogResponse{
		Currency: plans.Currency,
		Plans:    services.PlanCatalog(p.tr, locale),
		Upgrades: services.UpgradeOffers(p.tr, locale),
	}, "")
}
