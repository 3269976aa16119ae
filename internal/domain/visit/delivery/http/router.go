package http

import (
	"github.com/fasthttp/router"
	"github.com/rs/zerolog"
)

// Router registers visit routes
type Router struct {
	handler *Handler
	logger  zerolog.Logger
}

// NewRouter creates a new visit router
func NewRouter(handler *Handler, logger zerolog.Logger) *Router {
	return &Router{
		handler: handler,
		logger:  logger,
	}
}

// RegisterRoutes registers visit routes on the router
func (r *Router) RegisterRoutes(rt *router.Router) {
	rt.POST("/visit", r.handler.Record)
}
