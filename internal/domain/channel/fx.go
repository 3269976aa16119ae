// Package channel contains the channel registry domain
package channel

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	channelhttp "github.com/Conte777/TrackFlow/internal/domain/channel/delivery/http"
	"github.com/Conte777/TrackFlow/internal/domain/channel/deps"
	"github.com/Conte777/TrackFlow/internal/domain/channel/repository/postgres"
	"github.com/Conte777/TrackFlow/internal/domain/channel/usecase/business"
	"github.com/Conte777/TrackFlow/internal/infrastructure/http/server"
)

// Module provides channel domain components for fx DI
var Module = fx.Module("channel",
	fx.Provide(
		NewRepository,
		NewService,
		channelhttp.NewHandler,
		channelhttp.NewRouter,
	),
	fx.Invoke(RegisterRoutes),
)

func NewRepository(db *gorm.DB) deps.ChannelRepository {
	return postgres.NewRepository(db)
}

func NewService(
	repo deps.ChannelRepository,
	cache deps.LinkCacheInvalidator,
	users deps.UserRegistrar,
	logger zerolog.Logger,
) deps.ChannelService {
	return business.NewUseCase(repo, cache, users, logger)
}

// RegisterRoutes registers channel routes on the server
func RegisterRoutes(srv *server.Server, router *channelhttp.Router) {
	router.RegisterRoutes(srv.Router)
}
