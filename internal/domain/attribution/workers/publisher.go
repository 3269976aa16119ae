// Package workers contains background workers of the attribution domain
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Conte777/TrackFlow/internal/domain/attribution/deps"
	"github.com/Conte777/TrackFlow/internal/domain/attribution/entities"
	"github.com/Conte777/TrackFlow/internal/infrastructure/metrics"
	"github.com/Conte777/TrackFlow/internal/infrastructure/retry"
)

// PublisherWorker drains a bounded queue of subscription events into Kafka.
// Publish never blocks; a full queue drops the event.
type PublisherWorker struct {
	producer deps.EventProducer
	policy   retry.Policy
	metrics  *metrics.Metrics
	logger   zerolog.Logger

	queue  chan *entities.SubscriptionCreated
	done   chan struct{}
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewPublisherWorker creates a publisher with a queue of queueSize events
func NewPublisherWorker(
	producer deps.EventProducer,
	policy retry.Policy,
	queueSize int,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *PublisherWorker {
	if queueSize < 1 {
		queueSize = 1
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &PublisherWorker{
		producer: producer,
		policy:   policy,
		metrics:  m,
		logger:   logger.With().Str("component", "event_publisher").Logger(),
		queue:    make(chan *entities.SubscriptionCreated, queueSize),
		done:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Publish enqueues the event. Without a broker it is a no-op.
func (w *PublisherWorker) Publish(ev *entities.SubscriptionCreated) {
	if !w.producer.Enabled() {
		return
	}

	select {
	case w.queue <- ev:
	default:
		w.metrics.RecordPublishError("queue_full")
		w.logger.Warn().
			Int64("subscription_id", ev.SubscriptionID).
			Int64("channel_id", ev.ChannelID).
			Msg("event queue full, subscription event dropped")
	}
}

// Start starts the worker loop
func (w *PublisherWorker) Start() {
	if !w.producer.Enabled() {
		w.logger.Info().Msg("No Kafka brokers configured, subscription events are not published")
	}
	w.logger.Info().Int("queue_size", cap(w.queue)).Msg("Starting event publisher")

	w.wg.Add(1)
	go w.run()
}

// Stop flushes queued events until ctx is done, then abandons the rest
func (w *PublisherWorker) Stop(ctx context.Context) {
	w.logger.Info().Int("pending", len(w.queue)).Msg("Stopping event publisher")
	close(w.done)

	flushed := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(flushed)
	}()

	select {
	case <-flushed:
	case <-ctx.Done():
		w.cancel()
		<-flushed
	}
	w.cancel()

	w.logger.Info().Msg("Event publisher stopped")
}

func (w *PublisherWorker) run() {
	defer w.wg.Done()

	for {
		select {
		case ev := <-w.queue:
			w.send(ev)
		case <-w.done:
			w.drain()
			return
		}
	}
}

func (w *PublisherWorker) drain() {
	for {
		select {
		case ev := <-w.queue:
			if w.ctx.Err() != nil {
				w.metrics.RecordPublishError("shutdown")
				continue
			}
			w.send(ev)
		default:
			return
		}
	}
}

func (w *PublisherWorker) send(ev *entities.SubscriptionCreated) {
	start := time.Now()
	err := w.policy.Do(w.ctx, func(ctx context.Context) error {
		return w.producer.SendSubscriptionCreated(ctx, ev)
	})
	if err != nil {
		w.metrics.RecordPublishError("send_failed")
		w.logger.Error().
			Err(err).
			Int64("subscription_id", ev.SubscriptionID).
			Int64("channel_id", ev.ChannelID).
			Msg("failed to publish subscription event")
		return
	}
	w.metrics.RecordPublish(time.Since(start).Seconds())
}
