package notifier

import (
	"context"

	"github.com/segmentio/kafka-go"

	"github.com/iho/bankledger/internal/domain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher produces notifications to a Kafka topic keyed by account
// number, so one account's messages stay ordered within a partition.
type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher creates a publisher writing to topic on brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
	}
}

// Name implements Publisher.
func (p *KafkaPublisher) Name() string { return "kafka" }

// Publish implements Publisher.
func (p *KafkaPublisher) Publish(ctx context.Context, n domain.Notification) error {
	payload, err := encode(n)
	if err != nil {
		return Permanent(err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(n.AccountNumber),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(n.Type)},
			{Key: "utr", Value: []byte(n.UTR)},
		},
	})
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
