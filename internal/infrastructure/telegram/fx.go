package telegram

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/TrackFlow/config"
	"github.com/Conte777/TrackFlow/internal/infrastructure/metrics"
	"github.com/Conte777/TrackFlow/internal/infrastructure/retry"
)

// Module provides Telegram bot for fx dependency injection
var Module = fx.Module("telegram",
	fx.Provide(provideBot),
	fx.Invoke(registerLifecycle),
)

func provideBot(
	cfg *config.TelegramConfig,
	outbound *config.OutboundConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) (*Bot, error) {
	policy := retry.FromConfig(outbound)
	policy.OnRetry = func(int, error) { m.RecordRetry("telegram") }

	return NewBot(cfg.BotToken, policy, logger.With().Str("component", "telegram-bot").Logger())
}

// registerLifecycle starts polling or registers the webhook depending on mode
func registerLifecycle(lc fx.Lifecycle, cfg *config.TelegramConfig, bot *Bot, logger zerolog.Logger) {
	var cancel context.CancelFunc
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if cfg.Mode == config.TelegramModeWebhook {
				close(done)
				if err := bot.RegisterWebhook(ctx, cfg.WebhookURL, cfg.WebhookSecret); err != nil {
					// updates are still accepted if the webhook was registered earlier
					logger.Error().Err(err).Msg("Telegram webhook registration failed")
				}
				return nil
			}

			var pollCtx context.Context
			pollCtx, cancel = context.WithCancel(context.Background())

			go func() {
				defer close(done)
				bot.StartPolling(pollCtx)
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			select {
			case <-done:
			case <-ctx.Done():
			}
			return nil
		},
	})
}
