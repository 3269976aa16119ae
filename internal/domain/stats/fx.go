// Package stats contains visit and subscription rollups
package stats

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	statshttp "github.com/Conte777/TrackFlow/internal/domain/stats/delivery/http"
	"github.com/Conte777/TrackFlow/internal/domain/stats/deps"
	"github.com/Conte777/TrackFlow/internal/domain/stats/repository/postgres"
	"github.com/Conte777/TrackFlow/internal/domain/stats/usecase/business"
	"github.com/Conte777/TrackFlow/internal/infrastructure/http/server"
)

// Module provides stats domain components for fx DI
var Module = fx.Module("stats",
	fx.Provide(
		NewRepository,
		NewService,
		statshttp.NewHandler,
		statshttp.NewRouter,
	),
	fx.Invoke(RegisterRoutes),
)

func NewRepository(db *gorm.DB) deps.StatsRepository {
	return postgres.NewRepository(db)
}

func NewService(repo deps.StatsRepository, logger zerolog.Logger) deps.StatsService {
	return business.NewUseCase(repo, logger)
}

// RegisterRoutes registers stats routes on the server
func RegisterRoutes(srv *server.Server, router *statshttp.Router) {
	router.RegisterRoutes(srv.Router)
}
