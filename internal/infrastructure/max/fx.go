package max

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"go.uber.org/fx"

	"github.com/Conte777/TrackFlow/config"
	"github.com/Conte777/TrackFlow/internal/infrastructure/metrics"
	"github.com/Conte777/TrackFlow/internal/infrastructure/retry"
)

// Module provides the MAX API client for fx DI
var Module = fx.Module("max",
	fx.Provide(provideClient),
	fx.Invoke(registerWebhook),
)

// provideClient returns nil when MAX is not configured
func provideClient(
	cfg *config.MaxConfig,
	outbound *config.OutboundConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Client {
	log := logger.With().Str("component", "max-client").Logger()
	if cfg.BotToken == "" {
		log.Info().Msg("MAX_BOT_TOKEN not set, MAX API client disabled")
		return nil
	}

	policy := retry.FromConfig(outbound)
	policy.OnRetry = func(int, error) { m.RecordRetry("max") }

	httpClient := &fasthttp.Client{
		Name:                "attribution-service",
		MaxConnsPerHost:     16,
		ReadTimeout:         outbound.Timeout,
		WriteTimeout:        outbound.Timeout,
		MaxIdleConnDuration: time.Minute,
	}

	return NewClient(httpClient, cfg.APIBaseURL, cfg.BotToken, cfg.RateLimit, policy, log)
}

func registerWebhook(lc fx.Lifecycle, cfg *config.MaxConfig, client *Client, logger zerolog.Logger) {
	if client == nil || cfg.WebhookURL == "" {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			// registration is best effort and must not hold up startup
			go func() {
				if err := client.Subscribe(context.Background(), cfg.WebhookURL, cfg.WebhookSecret); err != nil {
					logger.Error().Err(err).Msg("MAX webhook registration failed")
				}
			}()
			return nil
		},
	})
}
