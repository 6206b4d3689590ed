// Package api wires the HTTP surface: routes, middleware and handlers.
package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/shopscout/api/handler"
	"github.com/use-agent/shopscout/api/middleware"
	"github.com/use-agent/shopscout/cache"
	"github.com/use-agent/shopscout/config"
	"github.com/use-agent/shopscout/pipeline"
	"github.com/use-agent/shopscout/snapshot"
	"github.com/use-agent/shopscout/webhook"
)

// Deps are the services the router hands to its handlers.
type Deps struct {
	Runner   *pipeline.Runner
	Store    snapshot.Store
	Cache    *cache.Cache
	Notifier *webhook.Notifier
	Sessions handler.SessionStatter
}

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health and site listing stay outside auth so probes always work.
func NewRouter(cfg *config.Config, deps Deps, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	reg := deps.Runner.Registry()

	v1 := r.Group("/api/v1")
	v1.GET("/health", handler.Health(deps.Sessions, deps.Runner.Sites(), startTime))
	v1.GET("/sites", handler.ListSites(reg))

	protected := v1.Group("")
	limited := r.Group("/buscar")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
		limited.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	rl := middleware.RateLimit(cfg.RateLimit)
	protected.Use(rl)
	limited.Use(rl)

	protected.POST("/search", handler.Search(deps.Runner, deps.Cache, deps.Notifier))
	protected.POST("/sites/:site/search", handler.SiteSearch(deps.Runner))
	protected.GET("/snapshots/:site", handler.GetSnapshot(reg, deps.Store))

	limited.POST("/:site", handler.Buscar(deps.Runner))

	return r
}
