package main

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/TrackFlow/config"
	"github.com/Conte777/TrackFlow/internal/app"
)

func main() {
	fx.New(
		app.CreateApp(),
		fx.Invoke(run),
	).Run()
}

func run(
	lc fx.Lifecycle,
	cfg *config.Config,
	logger zerolog.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info().
				Str("service", cfg.Service.Name).
				Str("port", cfg.Service.Port).
				Str("env", cfg.Service.Environment).
				Str("telegram_mode", cfg.Telegram.Mode).
				Bool("max_enabled", cfg.Max.BotToken != "").
				Bool("kafka_enabled", len(cfg.Kafka.Brokers) > 0).
				Dur("lookback_window", cfg.Attribution.LookbackWindow).
				Msg("Starting attribution service")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("Attribution service stopped")
			return nil
		},
	})
}
