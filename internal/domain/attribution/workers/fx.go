package workers

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/TrackFlow/config"
	"github.com/Conte777/TrackFlow/internal/domain/attribution/deps"
	"github.com/Conte777/TrackFlow/internal/infrastructure/metrics"
	"github.com/Conte777/TrackFlow/internal/infrastructure/retry"
)

// Module provides attribution workers for fx DI
var Module = fx.Module("attribution-workers",
	fx.Provide(
		NewPublisherWorkerFx,
		NewEventPublisher,
	),
	fx.Invoke(registerLifecycle),
)

func NewPublisherWorkerFx(
	producer deps.EventProducer,
	outbound *config.OutboundConfig,
	attrCfg *config.AttributionConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *PublisherWorker {
	policy := retry.FromConfig(outbound)
	policy.OnRetry = func(int, error) { m.RecordRetry("kafka") }

	return NewPublisherWorker(producer, policy, attrCfg.EventQueueSize, m, logger)
}

func NewEventPublisher(w *PublisherWorker) deps.EventPublisher {
	return w
}

// registerLifecycle registers the publisher with fx.Lifecycle
func registerLifecycle(lc fx.Lifecycle, w *PublisherWorker) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			w.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			w.Stop(ctx)
			return nil
		},
	})
}
