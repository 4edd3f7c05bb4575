package repository

import (
	"context"

	"BankBrain/internal/domain/models"
	"BankBrain/internal/domain/repository"
)

type keyedProducer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// KafkaAnomalyPublisher implements AlertPublisher for Kafka.
// Events are keyed by user so one user's alerts share a partition.
type KafkaAnomalyPublisher struct {
	producer keyedProducer
	topic    string
}

// NewKafkaAnomalyPublisher creates Kafka publisher.
func NewKafkaAnomalyPublisher(producer keyedProducer, topic string) repository.AlertPublisher {
	return &KafkaAnomalyPublisher{producer: producer, topic: topic}
}

func (p *KafkaAnomalyPublisher) PublishAnomaly(ctx context.Context, ev *models.AnomalyEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.UserID), ev)
}

func (p *KafkaAnomalyPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
