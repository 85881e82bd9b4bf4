package messaging

import (
	"context"

	"github.com/printtrack/tracking-service/internal/domain"
	"github.com/printtrack/tracking-service/pkg/kafka"
)

// KafkaEventPublisher implements domain.EventPublisher on top of the Kafka
// producer stack. Events are keyed by aggregate ID so each order's and
// material's events stay ordered within their partition.
type KafkaEventPublisher struct {
	producer *kafka.CircuitBreakerProducer
}

// NewKafkaEventPublisher creates a new KafkaEventPublisher
func NewKafkaEventPublisher(producer *kafka.CircuitBreakerProducer) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer}
}

// Publish publishes a domain event to the given topic
func (p *KafkaEventPublisher) Publish(ctx context.Context, topic string, event domain.DomainEvent) error {
	return p.producer.PublishJSON(ctx, topic, event.AggregateID(), event.EventType(), event)
}

// Close closes the underlying producer
func (p *KafkaEventPublisher) Close() error {
	return p.producer.Close()
}
