package http

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	"github.com/Conte777/TrackFlow/pkg/httputil"
)

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

// HealthHandler reports store and cache reachability
type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewHealthHandler creates a health handler. redis may be nil when the cache is disabled.
func NewHealthHandler(db *gorm.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: rdb}
}

// Handle serves GET /health
func (h *HealthHandler) Handle(ctx *fasthttp.RequestCtx) {
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", Database: "ok", Redis: "disabled"}
	healthy := true

	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(pingCtx) != nil {
		resp.Database = "unavailable"
		healthy = false
	}

	if h.redis != nil {
		resp.Redis = "ok"
		// the cache is optional, a failed ping degrades but does not fail the check
		if err := h.redis.Ping(pingCtx).Err(); err != nil {
			resp.Redis = "unavailable"
		}
	}

	if !healthy {
		resp.Status = "unavailable"
	}
	httputil.WriteHealthResponse(ctx, resp, healthy)
}
