package http

import (
	"github.com/fasthttp/router"
	"github.com/rs/zerolog"

	"github.com/Conte777/TrackFlow/pkg/httputil"
)

// Router registers channel admin routes
type Router struct {
	handler *Handler
	logger  zerolog.Logger
}

// NewRouter creates a new channel router
func NewRouter(handler *Handler, logger zerolog.Logger) *Router {
	return &Router{
		handler: handler,
		logger:  logger,
	}
}

// RegisterRoutes registers channel routes on the router
func (r *Router) RegisterRoutes(rt *router.Router) {
	admin := httputil.NewMiddlewareGroup(rt.Group("/api/v1/channels"))
	admin.POST("/{channelId}/max-chat", r.handler.LinkMaxChat)
	admin.PUT("/{channelId}/analytics", r.handler.UpdateAnalytics)
}
