// Package auth contains the mini-app session authenticator
package auth

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/Conte777/TrackFlow/config"
	"github.com/Conte777/TrackFlow/internal/domain/auth/deps"
	"github.com/Conte777/TrackFlow/internal/domain/auth/repository/postgres"
	"github.com/Conte777/TrackFlow/internal/domain/auth/usecase/business"
	channeldeps "github.com/Conte777/TrackFlow/internal/domain/channel/deps"
	"github.com/Conte777/TrackFlow/internal/infrastructure/metrics"
)

// Module provides auth domain components for fx DI
var Module = fx.Module("auth",
	fx.Provide(
		NewRepository,
		NewAuthenticator,
		NewUserRegistrar,
	),
)

func NewRepository(db *gorm.DB) deps.UserRepository {
	return postgres.NewRepository(db)
}

func NewAuthenticator(
	keys deps.SessionKeys,
	users deps.UserRepository,
	authCfg *config.AuthConfig,
	svcCfg *config.ServiceConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) deps.Authenticator {
	return business.NewUseCase(keys, users, authCfg, svcCfg, m, logger)
}

// NewUserRegistrar records channel owners without a session
func NewUserRegistrar(users deps.UserRepository) channeldeps.UserRegistrar {
	return business.NewRegistrar(users)
}
