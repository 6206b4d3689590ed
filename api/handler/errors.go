package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/shopscout/models"
)

// respondError maps err to an HTTP status and writes a SearchResponse
// carrying the error detail.
func respondError(c *gin.Context, err error, timing models.TimingInfo) {
	scrapeErr := models.AsScrapeError(err)
	c.JSON(mapErrorToStatus(scrapeErr.Code), models.SearchResponse{
		Success: false,
		Error:   scrapeErr.ToDetail(),
		Timing:  timing,
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(code string) int {
	switch code {
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeNavigation, models.ErrCodeExtraction:
		return http.StatusBadGateway // 502
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeNotFound:
		return http.StatusNotFound // 404
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
