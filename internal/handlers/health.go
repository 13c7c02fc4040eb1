package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HackNC/resume-parser/internal/models"
)

// HealthCheck returns the API health status.
// GET /api/v1/health
func (h *Handler) HealthCheck(c *gin.Context) {
	ctx := c.Request.Context()

	status := "ok"
	dbStatus := "healthy"
	if err := h.DB.HealthCheck(ctx); err != nil {
		dbStatus = "unhealthy: " + err.Error()
		status = "degraded"
	}
	searchStatus := "healthy"
	if err := h.Deps.Index.Ping(ctx); err != nil {
		searchStatus = "unhealthy: " + err.Error()
		status = "degraded"
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, models.HealthResponse{
		Status:   status,
		Version:  Version,
		Database: dbStatus,
		Search:   searchStatus,
	})
}
