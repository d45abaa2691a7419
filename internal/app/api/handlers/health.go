package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/paytrack/internal/app/service/registry"
	"github.com/fatflowers/paytrack/pkg/response"
	"github.com/fatflowers/paytrack/pkg/types"
)

type HealthResponse struct {
	Status   string                      `json:"status"`
	Payments map[types.PaymentStatus]int `json:"payments"`
}

// @Summary      Health check
// @Description  Returns service status and tracked payment counts
// @Tags         System
// @Produce      json
// @Success      200  {object}  handlers.RespHealth
// @Router       /healthz [get]
func Healthz(reg *registry.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, response.OKT(&HealthResponse{Status: "ok", Payments: reg.Counts()}))
	}
}

func RegisterHealthRoutes(r gin.IRouter, reg *registry.Registry) {
	r.GET("/healthz", Healthz(reg))
}
