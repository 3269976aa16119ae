package kafka

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/TrackFlow/config"
)

// Module provides the Kafka producer for fx DI
var Module = fx.Module("kafka",
	fx.Provide(NewProducerFx),
)

// NewProducerFx creates the producer and closes it on stop.
// Without configured brokers the producer is disabled.
func NewProducerFx(lc fx.Lifecycle, cfg *config.KafkaConfig, logger zerolog.Logger) (*Producer, error) {
	log := logger.With().Str("component", "kafka-producer").Logger()

	if len(cfg.Brokers) == 0 {
		log.Info().Msg("KAFKA_BROKERS not set, subscription events will not be published")
		return NewProducer(nil, log), nil
	}

	producer, err := NewKafkaProducer(cfg.Brokers, log)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("closing kafka producer...")
			return producer.Close()
		},
	})

	return producer, nil
}
