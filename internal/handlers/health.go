package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eshop_back_end/internal/services"
)

type HealthHandler struct {
	service *services.HealthService
}

func NewHealthHandler(service *services.HealthService) *HealthHandler {
	return &HealthHandler{service: service}
}

// Check — GET /health, GET /health?deep=all
func (h *HealthHandler) Check(c *gin.Context) {
	deep := c.Query("deep") == "all"
	health := h.service.Check(c.Request.Context(), deep)

	status := http.StatusOK
	for _, dep := range health.ConnectedServices {
		if !dep.IsUp {
			status = http.StatusServiceUnavailable
			break
		}
	}
	c.JSON(status, health)
}
