// Package visit contains the visit recorder
package visit

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	authdeps "github.com/Conte777/TrackFlow/internal/domain/auth/deps"
	linkdeps "github.com/Conte777/TrackFlow/internal/domain/link/deps"
	visithttp "github.com/Conte777/TrackFlow/internal/domain/visit/delivery/http"
	"github.com/Conte777/TrackFlow/internal/domain/visit/deps"
	"github.com/Conte777/TrackFlow/internal/domain/visit/repository/postgres"
	"github.com/Conte777/TrackFlow/internal/domain/visit/usecase/business"
	"github.com/Conte777/TrackFlow/internal/infrastructure/http/server"
	"github.com/Conte777/TrackFlow/internal/infrastructure/metrics"
)

// Module provides visit domain components for fx DI
var Module = fx.Module("visit",
	fx.Provide(
		NewRepository,
		NewService,
		visithttp.NewHandler,
		visithttp.NewRouter,
	),
	fx.Invoke(RegisterRoutes),
)

func NewRepository(db *gorm.DB) deps.VisitRepository {
	return postgres.NewRepository(db)
}

func NewService(
	repo deps.VisitRepository,
	links linkdeps.LinkService,
	auth authdeps.Authenticator,
	m *metrics.Metrics,
	logger zerolog.Logger,
) deps.VisitService {
	return business.NewUseCase(repo, links, auth, m, logger)
}

// RegisterRoutes registers visit routes on the server
func RegisterRoutes(srv *server.Server, router *visithttp.Router) {
	router.RegisterRoutes(srv.Router)
}
