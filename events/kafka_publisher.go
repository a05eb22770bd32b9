package events

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/AlexObbs/shopp/models"
)

// KafkaPaymentPublisher publishes payment events to a Kafka topic, keyed by
// session id so events for one payment land on one partition.
type KafkaPaymentPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPaymentPublisher(brokers []string, topic string) *KafkaPaymentPublisher {
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	return &KafkaPaymentPublisher{writer: w}
}

func (p *KafkaPaymentPublisher) PublishPaymentEvent(ctx context.Context, event models.PaymentEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(event.SessionID),
		Value: data,
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaPaymentPublisher) Close() error {
	return p.writer.Close()
}
