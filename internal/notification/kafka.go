package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"
)

// KafkaNotifier publishes transaction-analyzed events to a Kafka topic,
// keyed by transaction id.
type KafkaNotifier struct {
	producer *kafka.Producer
	topic    string
	logger   *zap.Logger
}

// NewKafkaNotifier connects a producer and starts draining delivery reports.
func NewKafkaNotifier(brokers, topic string, logger *zap.Logger) (*KafkaNotifier, error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"acks":              "all",
	})
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	n := &KafkaNotifier{producer: producer, topic: topic, logger: logger}
	go n.drainEvents()
	return n, nil
}

func (n *KafkaNotifier) drainEvents() {
	for e := range n.producer.Events() {
		if m, ok := e.(*kafka.Message); ok && m.TopicPartition.Error != nil {
			n.logger.Error("kafka delivery failed",
				zap.String("topic", *m.TopicPartition.Topic),
				zap.Error(m.TopicPartition.Error),
			)
		}
	}
}

func (n *KafkaNotifier) TransactionAnalyzed(ctx context.Context, event TransactionAnalyzed) {
	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("marshal transaction event", zap.Error(err))
		return
	}

	err = n.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &n.topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.TransactionID.String()),
		Value:          payload,
	}, nil)
	if err != nil {
		n.logger.Error("kafka produce failed",
			zap.String("transaction_id", event.TransactionID.String()),
			zap.Error(err),
		)
	}
}

// Close flushes outstanding messages and stops the producer.
func (n *KafkaNotifier) Close() {
	n.producer.Flush(5000)
	n.producer.Close()
}
