package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storyweave/internal/engine"
	"storyweave/internal/logger"
)

type RouterConfig struct {
	Service *engine.Service
	Logger  *logger.Logger
	Metrics *Metrics
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Metrics == nil {
		cfg.Metrics = NewMetrics(nil)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(cfg.Logger))
	r.Use(cfg.Metrics.Middleware())

	r.GET("/healthz", func(c *gin.Context) {
		RespondOK(c, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))

	h := NewHandlers(cfg.Service)

	encounters := r.Group("/encounters")
	encounters.POST("", h.CreateEncounter)
	encounters.GET("/unlinked", h.ListUnlinked)
	encounters.GET("/:id", h.GetEncounter)
	encounters.PATCH("/:id", h.UpdateEncounter)
	encounters.POST("/:id/duplicate", h.DuplicateEncounter)
	encounters.POST("/:id/routes", h.CreateRoute)

	storylines := r.Group("/storylines")
	storylines.GET("", h.ListStorylines)
	storylines.GET("/:id/descendants", h.Descendants)
	storylines.DELETE("/:id", h.DeleteStoryline)

	routes := r.Group("/routes")
	routes.PATCH("/:id", h.UpdateRouteLabel)
	routes.PUT("/:id/target", h.SetRouteTarget)
	routes.DELETE("/:id", h.DeleteRoute)

	r.NoRoute(func(c *gin.Context) {
		RespondError(c, http.StatusNotFound, "not_found", nil)
	})

	return r
}
