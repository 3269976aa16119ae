// Package kafka contains the Kafka producer of attribution events
package kafka

import (
	"context"

	"github.com/Conte777/TrackFlow/internal/domain/attribution/deps"
	"github.com/Conte777/TrackFlow/internal/domain/attribution/entities"
	infrakafka "github.com/Conte777/TrackFlow/internal/infrastructure/kafka"
)

// Producer implements deps.EventProducer
type Producer struct {
	producer *infrakafka.Producer
	topic    string
}

// NewProducer creates a producer writing to topic
func NewProducer(producer *infrakafka.Producer, topic string) deps.EventProducer {
	return &Producer{producer: producer, topic: topic}
}

// Enabled reports whether brokers are configured
func (p *Producer) Enabled() bool {
	return p.producer.Enabled()
}

// SendSubscriptionCreated sends the event keyed by channel id
func (p *Producer) SendSubscriptionCreated(ctx context.Context, ev *entities.SubscriptionCreated) error {
	return p.producer.SendToTopic(ctx, p.topic, ev.Key(), ev)
}
