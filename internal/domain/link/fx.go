// Package link contains the tracking link registry
package link

import (
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/Conte777/TrackFlow/config"
	channeldeps "github.com/Conte777/TrackFlow/internal/domain/channel/deps"
	linkhttp "github.com/Conte777/TrackFlow/internal/domain/link/delivery/http"
	"github.com/Conte777/TrackFlow/internal/domain/link/deps"
	"github.com/Conte777/TrackFlow/internal/domain/link/repository/cache"
	"github.com/Conte777/TrackFlow/internal/domain/link/repository/postgres"
	"github.com/Conte777/TrackFlow/internal/domain/link/usecase/business"
	"github.com/Conte777/TrackFlow/internal/infrastructure/http/server"
	"github.com/Conte777/TrackFlow/internal/infrastructure/metrics"
)

// Module provides link domain components for fx DI
var Module = fx.Module("link",
	fx.Provide(
		NewRepository,
		NewCache,
		NewCacheInvalidator,
		NewService,
		linkhttp.NewHandler,
		linkhttp.NewRouter,
	),
	fx.Invoke(RegisterRoutes),
)

func NewRepository(db *gorm.DB) deps.LinkRepository {
	return postgres.NewRepository(db)
}

// NewCache accepts a nil client when Redis is disabled
func NewCache(client *redis.Client, cfg *config.RedisConfig) deps.LinkCache {
	return cache.NewLinkCache(client, cfg.LinkTTL)
}

// NewCacheInvalidator lets the channel registry drop cached links
func NewCacheInvalidator(c deps.LinkCache) channeldeps.LinkCacheInvalidator {
	return c
}

func NewService(
	repo deps.LinkRepository,
	c deps.LinkCache,
	channels channeldeps.ChannelService,
	m *metrics.Metrics,
	logger zerolog.Logger,
) deps.LinkService {
	return business.NewUseCase(repo, c, channels, m, logger)
}

// RegisterRoutes registers link routes on the server
func RegisterRoutes(srv *server.Server, router *linkhttp.Router) {
	router.RegisterRoutes(srv.Router)
}
