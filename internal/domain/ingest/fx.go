// Package ingest receives platform updates by webhook and long polling
package ingest

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	attributiondeps "github.com/Conte777/TrackFlow/internal/domain/attribution/deps"
	channeldeps "github.com/Conte777/TrackFlow/internal/domain/channel/deps"
	ingesthttp "github.com/Conte777/TrackFlow/internal/domain/ingest/delivery/http"
	"github.com/Conte777/TrackFlow/internal/domain/ingest/deps"
	"github.com/Conte777/TrackFlow/internal/domain/ingest/usecase/business"
	"github.com/Conte777/TrackFlow/internal/domain/platform"
	"github.com/Conte777/TrackFlow/internal/infrastructure/http/server"
	"github.com/Conte777/TrackFlow/internal/infrastructure/metrics"
	"github.com/Conte777/TrackFlow/internal/infrastructure/telegram"
)

// Module provides the ingestor for fx DI
var Module = fx.Module("ingest",
	fx.Provide(
		NewService,
		ingesthttp.NewHandler,
		ingesthttp.NewRouter,
	),
	fx.Invoke(
		RegisterRoutes,
		AttachPolling,
	),
)

func NewService(
	platforms *platform.Registry,
	channels channeldeps.ChannelService,
	matcher attributiondeps.Matcher,
	m *metrics.Metrics,
	logger zerolog.Logger,
) deps.IngestService {
	return business.NewUseCase(platforms, channels, matcher, m, logger)
}

// RegisterRoutes registers webhook routes on the server
func RegisterRoutes(srv *server.Server, router *ingesthttp.Router) {
	router.RegisterRoutes(srv.Router)
}

// AttachPolling routes long-polled Telegram updates into the ingestor
func AttachPolling(bot *telegram.Bot, service deps.IngestService) {
	bot.SetUpdateHandler(service.HandleUpdate)
}
