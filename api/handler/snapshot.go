package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/shopscout/models"
	"github.com/use-agent/shopscout/site"
	"github.com/use-agent/shopscout/snapshot"
)

// GetSnapshot returns a handler for GET /api/v1/snapshots/:site, serving
// the last successful extraction without launching a browser.
func GetSnapshot(reg *site.Registry, store snapshot.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("site")
		if _, ok := reg.Get(id); !ok {
			respondError(c, models.NewScrapeError(models.ErrCodeNotFound, "unknown site: "+id, nil), models.TimingInfo{})
			return
		}

		snap, err := store.Load(c.Request.Context(), id)
		if errors.Is(err, snapshot.ErrNotFound) {
			respondError(c, models.NewScrapeError(models.ErrCodeNotFound, "no snapshot for "+id+" yet", err), models.TimingInfo{})
			return
		}
		if err != nil {
			respondError(c, err, models.TimingInfo{})
			return
		}

		c.JSON(http.StatusOK, snap)
	}
}
