package platform

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/TrackFlow/config"
	authdeps "github.com/Conte777/TrackFlow/internal/domain/auth/deps"
	channeldeps "github.com/Conte777/TrackFlow/internal/domain/channel/deps"
	"github.com/Conte777/TrackFlow/internal/infrastructure/telegram"
)

// Module provides the platform registry for fx DI
var Module = fx.Module("platform",
	fx.Provide(
		NewRegistryFx,
		NewSessionKeys,
	),
)

// NewRegistryFx builds the Telegram and MAX platforms from configuration
func NewRegistryFx(
	tgCfg *config.TelegramConfig,
	maxCfg *config.MaxConfig,
	authCfg *config.AuthConfig,
	svcCfg *config.ServiceConfig,
	bot *telegram.Bot,
	channels channeldeps.ChannelService,
	logger zerolog.Logger,
) *Registry {
	relaxed := authCfg.VerificationRelaxed(svcCfg)
	allowUnsigned := !svcCfg.IsProduction()

	if tgCfg.WebhookSecret == "" && allowUnsigned {
		logger.Warn().Msg("TELEGRAM_WEBHOOK_SECRET is empty, telegram webhooks are accepted unsigned")
	}
	if maxCfg.WebhookSecret == "" && allowUnsigned {
		logger.Warn().Msg("MAX_WEBHOOK_SECRET is empty, max webhooks are accepted unsigned")
	}
	if maxCfg.BotToken == "" {
		logger.Info().Msg("MAX_BOT_TOKEN is empty, max visits are recorded without a session")
	}

	return NewRegistry(
		NewTelegram(tgCfg.BotToken, tgCfg.WebhookSecret, allowUnsigned, relaxed, bot),
		NewMax(maxCfg.BotToken, maxCfg.WebhookSecret, allowUnsigned, relaxed, channels),
	)
}

func NewSessionKeys(r *Registry) authdeps.SessionKeys {
	return r
}
