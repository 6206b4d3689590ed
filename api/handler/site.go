package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/shopscout/models"
	"github.com/use-agent/shopscout/pipeline"
	"github.com/use-agent/shopscout/report"
	"github.com/use-agent/shopscout/site"
)

// ListSites returns a handler for GET /api/v1/sites.
func ListSites(reg *site.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := models.SitesResponse{Sites: make([]models.SiteInfo, 0, reg.Len())}
		for _, e := range reg.All() {
			resp.Sites = append(resp.Sites, models.SiteInfo{
				ID:        e.ID(),
				Name:      e.Name(),
				SearchURL: e.SearchURL(),
			})
		}
		c.JSON(http.StatusOK, resp)
	}
}

// SiteSearch returns a handler for POST /api/v1/sites/:site/search.
// Unlike the multi-site search, a site failure sets the HTTP status.
func SiteSearch(runner *pipeline.Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()
		id := c.Param("site")

		var req models.SearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, models.NewScrapeError(models.ErrCodeInvalidInput, err.Error(), err), models.TimingInfo{})
			return
		}

		out, err := runner.Run(c.Request.Context(), id, req.Term)
		timing := models.TimingInfo{
			TotalMs: time.Since(totalStart).Milliseconds(),
			SitesMs: time.Since(totalStart).Milliseconds(),
		}
		if err != nil {
			respondError(c, err, timing)
			return
		}

		term, _ := models.ValidateTerm(req.Term)
		resp := models.SearchResponse{
			Success: out.OK(),
			Term:    term,
			Sites:   map[string]models.SiteResult{id: report.SiteResult(out)},
			Timing:  timing,
		}

		if !out.OK() {
			resp.Error = out.Err.ToDetail()
			c.JSON(mapErrorToStatus(out.Err.Code()), resp)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// Buscar returns a handler for POST /buscar/:site, the form-friendly route
// kept for existing web clients. It accepts JSON or urlencoded bodies and
// answers {"resultados": [{titulo, precio, imagen}]} or {"error": "..."}.
func Buscar(runner *pipeline.Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		ext, ok := runner.Registry().Get(c.Param("site"))
		if !ok {
			c.JSON(http.StatusNotFound, models.BuscarError{Error: "Tienda no soportada."})
			return
		}

		var req models.BuscarRequest
		_ = c.ShouldBind(&req)

		out, err := runner.Run(c.Request.Context(), ext.ID(), req.Producto)
		var se *models.ScrapeError
		if errors.As(err, &se) && se.Code == models.ErrCodeInvalidInput {
			c.JSON(http.StatusBadRequest, models.BuscarError{Error: "El término de búsqueda es requerido."})
			return
		}
		if err != nil || !out.OK() {
			c.JSON(http.StatusInternalServerError, models.BuscarError{
				Error: "Error al realizar el scraping en " + ext.Name() + ".",
			})
			return
		}

		c.JSON(http.StatusOK, models.NewBuscarResponse(out.Listings))
	}
}
