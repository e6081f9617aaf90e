package repository

import (
	"context"

	"ForecastOps/internal/domain/models"
	"ForecastOps/pkg/kafka"
)

// KafkaEventPublisher emits lifecycle events to a Kafka topic, keyed by
// ticker so events for one symbol stay ordered.
type KafkaEventPublisher struct {
	producer *kafka.Producer
	topic    string
}

// NewKafkaEventPublisher creates a new Kafka-backed event publisher.
func NewKafkaEventPublisher(producer *kafka.Producer, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

func (p *KafkaEventPublisher) Publish(ctx context.Context, event *models.PipelineEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(event.Ticker), event)
}

// PublishMessage sends an arbitrary payload to the given topic. This is
// the logger.Publisher contract, used to ship aggregated error logs.
func (p *KafkaEventPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

func (p *KafkaEventPublisher) Close() error {
	return p.producer.Close()
}

// NoopEventPublisher drops events. Used when no brokers are configured.
type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(context.Context, *models.PipelineEvent) error { return nil }
func (NoopEventPublisher) Close() error                                         { return nil }
