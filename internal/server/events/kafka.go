package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkaGo.Message) error
	Close() error
}

// KafkaPublisher writes JSON events to one topic, keyed by order id so all
// events of an order land on the same partition.
type KafkaPublisher struct {
	w messageWriter
}

// publishBatchTimeout bounds how long a synchronous write waits for more
// messages before flushing; Publish runs on the request path.
const publishBatchTimeout = 10 * time.Millisecond

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{w: &kafkaGo.Writer{
		Addr:                   kafkaGo.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkaGo.Hash{},
		BatchTimeout:           publishBatchTimeout,
		AllowAutoTopicCreation: true,
	}}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.w.WriteMessages(ctx, kafkaGo.Message{
		Key:   []byte(strconv.FormatInt(e.OrderID, 10)),
		Value: payload,
		Headers: []kafkaGo.Header{
			{Key: "type", Value: []byte(e.Type)},
		},
	}); err != nil {
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

// NewPublisher returns a Kafka publisher when brokers are set and a no-op
// publisher otherwise.
func NewPublisher(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		return NopPublisher{}
	}
	return NewKafkaPublisher(brokers, topic)
}
