package http

import (
	"github.com/fasthttp/router"
	"github.com/rs/zerolog"
)

// Router registers attribution routes
type Router struct {
	handler *Handler
	logger  zerolog.Logger
}

// NewRouter creates a new attribution router
func NewRouter(handler *Handler, logger zerolog.Logger) *Router {
	return &Router{
		handler: handler,
		logger:  logger,
	}
}

// RegisterRoutes registers attribution routes on the router
func (r *Router) RegisterRoutes(rt *router.Router) {
	rt.POST("/subscribe", r.handler.Subscribe)
	rt.GET("/check-subscription", r.handler.CheckSubscription)
}
