package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/IBM/sarama"

	"agrimarket-delivery/internal/domain"
	"agrimarket-delivery/internal/logx"
)

var newSyncProducer = sarama.NewSyncProducer

// StatusProducer publishes delivery status events keyed by delivery ID
type StatusProducer struct {
	producer sarama.SyncProducer
	topic    string
	logger   logx.Logger
}

// NewStatusProducer creates a producer; it returns nil when Kafka is not configured
func NewStatusProducer(logger logx.Logger, brokers []string, topic string) (*StatusProducer, error) {
	if len(brokers) == 0 || strings.TrimSpace(topic) == "" {
		return nil, nil
	}
	if logger == nil {
		logger = logx.Nop()
	}

	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Return.Successes = true

	p, err := newSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return newStatusProducer(p, topic, logger), nil
}

func newStatusProducer(p sarama.SyncProducer, topic string, logger logx.Logger) *StatusProducer {
	return &StatusProducer{producer: p, topic: topic, logger: logger}
}

// Publish sends e; a nil producer drops it
func (p *StatusProducer) Publish(_ context.Context, e domain.StatusEvent) error {
	if p == nil {
		return nil
	}
	b, err := json.Marshal(FromStatusEvent(e))
	if err != nil {
		return Permanent(err)
	}
	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(e.DeliveryID),
		Value: sarama.ByteEncoder(b),
	})
	if err != nil {
		return fmt.Errorf("send status event: %w", err)
	}
	p.logger.Debug("status event published",
		logx.String("delivery_id", e.DeliveryID),
		logx.Int64("partition", int64(partition)),
		logx.Int64("offset", offset),
	)
	return nil
}

// Close closes the producer
func (p *StatusProducer) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}
