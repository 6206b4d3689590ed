package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/shopscout/models"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// SessionStatter reports browser session usage.
type SessionStatter interface {
	Stats() models.SessionStats
}

// Health returns a handler for GET /api/v1/health.
//
// Status degrades when more than 80% of browser sessions are in use.
func Health(stats SessionStatter, sites []string, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := stats.Stats()

		status := "healthy"
		if s.MaxSessions > 0 && s.ActiveSessions > int(float64(s.MaxSessions)*0.8) {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:       status,
			Uptime:       time.Since(startTime).Round(time.Second).String(),
			SessionStats: s,
			Sites:        sites,
			Version:      Version,
		})
	}
}
