package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/use-agent/shopscout/cache"
	"github.com/use-agent/shopscout/models"
	"github.com/use-agent/shopscout/pipeline"
	"github.com/use-agent/shopscout/report"
	"github.com/use-agent/shopscout/webhook"
)

// Search returns a handler for POST /api/v1/search.
//
// Orchestration flow:
//  1. Parse & validate request.
//  2. Serve from cache when max_age allows.
//  3. Runner.RunAll → one outcome per site   (records sites_ms)
//  4. Build per-site results, assigning listing IDs.
//  5. Cache fully successful responses, fire the webhook, respond 200.
//
// Per-site failures do not change the status code; they are reported in
// the site's entry.
func Search(runner *pipeline.Runner, cc *cache.Cache, notifier *webhook.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		// ── 1. Parse request ────────────────────────────────────────
		var req models.SearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, models.NewScrapeError(models.ErrCodeInvalidInput, err.Error(), err), models.TimingInfo{})
			return
		}
		term, err := models.ValidateTerm(req.Term)
		if err != nil {
			respondError(c, err, models.TimingInfo{})
			return
		}

		// ── 2. Cache lookup ─────────────────────────────────────────
		cacheKey := cache.Key(term, runner.Sites())
		if cc != nil && req.MaxAge > 0 {
			if cached, hit := cc.Get(cacheKey, req.MaxAge); hit {
				resp := *cached
				resp.CacheStatus = "hit"
				resp.Timing = models.TimingInfo{TotalMs: time.Since(totalStart).Milliseconds()}
				c.JSON(http.StatusOK, resp)
				return
			}
		}

		// ── 3. Run every site ───────────────────────────────────────
		sitesStart := time.Now()
		outcomes, err := runner.RunAll(c.Request.Context(), term)
		sitesMs := time.Since(sitesStart).Milliseconds()
		if err != nil {
			respondError(c, err, models.TimingInfo{
				TotalMs: time.Since(totalStart).Milliseconds(),
				SitesMs: sitesMs,
			})
			return
		}

		// ── 4. Build response ───────────────────────────────────────
		resp, allOK := report.NewSearchResponse(term, outcomes)
		resp.Timing = models.TimingInfo{
			TotalMs: time.Since(totalStart).Milliseconds(),
			SitesMs: sitesMs,
		}

		// ── 5. Cache, notify, respond ───────────────────────────────
		if cc != nil && req.MaxAge > 0 {
			resp.CacheStatus = "miss"
			if allOK {
				cc.Set(cacheKey, resp)
			}
		}

		if req.WebhookURL != "" && notifier != nil {
			notifier.DeliverAsync(req.WebhookURL, req.WebhookSecret, &webhook.Event{
				Type:      webhook.EventSearchCompleted,
				SearchID:  uuid.NewString(),
				Timestamp: time.Now().Unix(),
				Data:      resp,
			})
		}

		slog.Debug("search served", "term", term, "sites", len(outcomes), "all_ok", allOK)
		c.JSON(http.StatusOK, resp)
	}
}
