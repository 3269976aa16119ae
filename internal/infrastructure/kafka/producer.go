package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"
)

// Producer publishes JSON events through a sarama SyncProducer.
// A Producer without brokers is disabled and discards events.
type Producer struct {
	producer     sarama.SyncProducer
	logger       zerolog.Logger
	successCount atomic.Uint64
	errorCount   atomic.Uint64
}

// NewSaramaConfig returns the producer configuration used in production
func NewSaramaConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = "attribution-service"
	cfg.Producer.Return.Successes = true
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Retry.Backoff = 500 * time.Millisecond
	cfg.Producer.Timeout = 10 * time.Second
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Partitioner = sarama.NewHashPartitioner
	return cfg
}

// NewKafkaProducer dials the brokers and returns a ready producer
func NewKafkaProducer(brokers []string, logger zerolog.Logger) (*Producer, error) {
	producer, err := sarama.NewSyncProducer(brokers, NewSaramaConfig())
	if err != nil {
		logger.Error().Err(err).Strs("brokers", brokers).Msg("failed to create Kafka SyncProducer")
		return nil, err
	}

	logger.Info().Strs("brokers", brokers).Msg("Kafka SyncProducer successfully initialized")
	return NewProducer(producer, logger), nil
}

// NewProducer wraps an existing SyncProducer; nil yields a disabled producer
func NewProducer(producer sarama.SyncProducer, logger zerolog.Logger) *Producer {
	return &Producer{
		producer: producer,
		logger:   logger,
	}
}

// Enabled reports whether events are actually sent
func (p *Producer) Enabled() bool {
	return p.producer != nil
}

// Close closes the underlying producer
func (p *Producer) Close() error {
	if p.producer == nil {
		return nil
	}

	if err := p.producer.Close(); err != nil {
		p.logger.Error().Err(err).Msg("failed to close Kafka producer")
		return err
	}

	p.logger.Info().
		Uint64("success_count", p.successCount.Load()).
		Uint64("error_count", p.errorCount.Load()).
		Msg("Kafka producer successfully closed")
	return nil
}

// SendToTopic marshals event to JSON and sends it keyed by key
func (p *Producer) SendToTopic(ctx context.Context, topic, key string, event any) error {
	if p.producer == nil {
		p.logger.Debug().Str("topic", topic).Str("key", key).Msg("kafka disabled, event discarded")
		return nil
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before sending: %w", err)
	}

	bytes, err := json.Marshal(event)
	if err != nil {
		p.errorCount.Add(1)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(bytes),
	}

	start := time.Now()
	partition, offset, err := p.producer.SendMessage(msg)
	latency := time.Since(start)

	if err != nil {
		p.errorCount.Add(1)
		p.logger.Error().
			Err(err).
			Str("topic", topic).
			Str("key", key).
			Dur("latency", latency).
			Uint64("error_count", p.errorCount.Load()).
			Msg("failed to send event to kafka")
		return err
	}

	p.successCount.Add(1)

	p.logger.Debug().
		Str("topic", topic).
		Str("key", key).
		Int32("partition", partition).
		Int64("offset", offset).
		Dur("latency", latency).
		Msg("event sent to kafka")

	return nil
}
