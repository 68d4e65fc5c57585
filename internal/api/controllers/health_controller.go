package controllers

import (
	"github.com/gin-gonic/gin"

	"healthybychoice/pkg/utils"
)

// Healthz godoc
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /healthz [get]
func Healthz(c *gin.Context) {
	utils.RespondSuccess(c, gin.H{"status": "ok"}, "")
}
