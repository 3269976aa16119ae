package app

import (
	"go.uber.org/fx"

	"github.com/Conte777/TrackFlow/config"
	"github.com/Conte777/TrackFlow/internal/domain/attribution"
	"github.com/Conte777/TrackFlow/internal/domain/auth"
	"github.com/Conte777/TrackFlow/internal/domain/channel"
	"github.com/Conte777/TrackFlow/internal/domain/ingest"
	"github.com/Conte777/TrackFlow/internal/domain/link"
	"github.com/Conte777/TrackFlow/internal/domain/platform"
	"github.com/Conte777/TrackFlow/internal/domain/stats"
	"github.com/Conte777/TrackFlow/internal/domain/visit"
	"github.com/Conte777/TrackFlow/internal/infrastructure"
)

// CreateApp creates the fx application options
func CreateApp() fx.Option {
	return fx.Options(
		fx.Provide(config.Out),
		infrastructure.Module,
		// Domain modules
		auth.Module,
		channel.Module,
		platform.Module,
		link.Module,
		visit.Module,
		attribution.Module,
		ingest.Module, // Must come after attribution.Module: attaches the matcher to polling
		stats.Module,
	)
}
