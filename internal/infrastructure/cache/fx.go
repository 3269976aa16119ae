package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/TrackFlow/config"
)

// Module provides the Redis client for fx DI
var Module = fx.Module("cache",
	fx.Provide(NewRedisClientFx),
)

// NewRedisClientFx returns nil when no address is configured or Redis is
// unreachable at startup; callers then read through to the database.
func NewRedisClientFx(
	lc fx.Lifecycle,
	cfg *config.RedisConfig,
	logger zerolog.Logger,
) *redis.Client {
	if cfg.Addr == "" {
		logger.Info().Msg("Redis address not configured, link cache disabled")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	client, err := NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Warn().Err(err).Str("addr", cfg.Addr).Msg("Redis unavailable, link cache disabled")
		return nil
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("Closing redis connection")
			return client.Close()
		},
	})

	logger.Info().Str("addr", cfg.Addr).Msg("Redis connected successfully")
	return client
}
