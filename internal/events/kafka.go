package events

import (
	"context"
	"encoding/json"
	"fmt"

	skafka "github.com/segmentio/kafka-go"
)

// Writer is the subset of the kafka writer the sink needs; it keeps the
// publisher testable without a broker.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...skafka.Message) error
	Close() error
}

// KafkaSink forwards bus events to a Kafka topic as JSON messages.
type KafkaSink struct {
	writer Writer
}

// NewKafkaSink creates a sink that writes to the given broker and topic.
func NewKafkaSink(brokerAddr, topic string) *KafkaSink {
	w := &skafka.Writer{
		Addr:     skafka.TCP(brokerAddr),
		Topic:    topic,
		Balancer: &skafka.LeastBytes{},
	}
	return &KafkaSink{writer: w}
}

// NewKafkaSinkWithWriter allows injecting a test writer.
func NewKafkaSinkWithWriter(w Writer) *KafkaSink {
	return &KafkaSink{writer: w}
}

func (s *KafkaSink) Publish(ctx context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	msg := skafka.Message{Key: []byte(key), Value: b}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write failed: %w", err)
	}
	return nil
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
