package controllers

import (
	"github.com/gin-gonic/gin"

	"healthybychoice/internal/services"
	"healthybychoice/pkg/middleware"
	"healthybychoice/pkg/utils"
)

type ReportController struct {
	reportService services.ReportServiceInterface
}

func NewReportController(reportService services.ReportServiceInterface) *ReportController {
	return &ReportController{reportService: reportService}
}

// GetReport godoc
// @Summary Results report
// @Description Score, goal connection and the sections the purchased plan unlocks
// @Tags Report
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /report [get]
func (r *ReportController) GetReport(c *gin.Context) {
	report, err := r.reportService.Report(c.Request.Context(), c.GetString(middleware.SessionIDKey))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, report, "")
}
