// Package attribution contains the join matcher and subscription endpoints
package attribution

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/Conte777/TrackFlow/config"
	attributionhttp "github.com/Conte777/TrackFlow/internal/domain/attribution/delivery/http"
	"github.com/Conte777/TrackFlow/internal/domain/attribution/deps"
	"github.com/Conte777/TrackFlow/internal/domain/attribution/repository/kafka"
	"github.com/Conte777/TrackFlow/internal/domain/attribution/repository/postgres"
	"github.com/Conte777/TrackFlow/internal/domain/attribution/usecase/business"
	"github.com/Conte777/TrackFlow/internal/domain/attribution/workers"
	authdeps "github.com/Conte777/TrackFlow/internal/domain/auth/deps"
	channeldeps "github.com/Conte777/TrackFlow/internal/domain/channel/deps"
	linkdeps "github.com/Conte777/TrackFlow/internal/domain/link/deps"
	"github.com/Conte777/TrackFlow/internal/domain/platform"
	"github.com/Conte777/TrackFlow/internal/infrastructure/http/server"
	infrakafka "github.com/Conte777/TrackFlow/internal/infrastructure/kafka"
	"github.com/Conte777/TrackFlow/internal/infrastructure/metrics"
)

// Module provides attribution domain components for fx DI
var Module = fx.Module("attribution",
	fx.Provide(
		NewRepository,
		NewEventProducer,
		NewMatcher,
		NewService,
		attributionhttp.NewHandler,
		attributionhttp.NewRouter,
	),
	workers.Module,
	fx.Invoke(RegisterRoutes),
)

func NewRepository(db *gorm.DB) deps.SubscriptionRepository {
	return postgres.NewRepository(db)
}

func NewEventProducer(producer *infrakafka.Producer, cfg *config.KafkaConfig) deps.EventProducer {
	return kafka.NewProducer(producer, cfg.EventTopic)
}

func NewMatcher(
	repo deps.SubscriptionRepository,
	channels channeldeps.ChannelService,
	platforms *platform.Registry,
	publisher deps.EventPublisher,
	cfg *config.AttributionConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) deps.Matcher {
	return business.NewMatcher(repo, channels, platforms, publisher, cfg.LookbackWindow, cfg.ClockSkew, m, logger)
}

func NewService(
	matcher deps.Matcher,
	repo deps.SubscriptionRepository,
	links linkdeps.LinkService,
	auth authdeps.Authenticator,
	platforms *platform.Registry,
	logger zerolog.Logger,
) deps.AttributionService {
	return business.NewUseCase(matcher, repo, links, auth, platforms, logger)
}

// RegisterRoutes registers attribution routes on the server
func RegisterRoutes(srv *server.Server, router *attributionhttp.Router) {
	router.RegisterRoutes(srv.Router)
}
