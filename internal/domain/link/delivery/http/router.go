package http

import (
	"github.com/fasthttp/router"
	"github.com/rs/zerolog"

	"github.com/Conte777/TrackFlow/pkg/httputil"
)

// Router registers link routes
type Router struct {
	handler *Handler
	logger  zerolog.Logger
}

// NewRouter creates a new link router
func NewRouter(handler *Handler, logger zerolog.Logger) *Router {
	return &Router{
		handler: handler,
		logger:  logger,
	}
}

// RegisterRoutes registers public and admin link routes
func (r *Router) RegisterRoutes(rt *router.Router) {
	rt.GET("/link/{shortCode}", r.handler.Resolve)

	admin := httputil.NewMiddlewareGroup(rt.Group("/api/v1"))
	admin.POST("/links", r.handler.Create)
	admin.DELETE("/links/{shortCode}", r.handler.Delete)
}
