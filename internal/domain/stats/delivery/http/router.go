package http

import (
	"github.com/fasthttp/router"
	"github.com/rs/zerolog"

	"github.com/Conte777/TrackFlow/pkg/httputil"
)

// Router registers stats routes
type Router struct {
	handler *Handler
	logger  zerolog.Logger
}

// NewRouter creates a new stats router
func NewRouter(handler *Handler, logger zerolog.Logger) *Router {
	return &Router{
		handler: handler,
		logger:  logger,
	}
}

// RegisterRoutes registers admin stats routes
func (r *Router) RegisterRoutes(rt *router.Router) {
	admin := httputil.NewMiddlewareGroup(rt.Group("/api/v1"))
	admin.GET("/stats/{channelId}", r.handler.Report)
}
