package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Kafka publishes change events to a Kafka topic, keyed by external id so
// per-judge ordering is preserved within a partition.
type Kafka struct {
	client *kgo.Client
	topic  string
}

// NewKafka connects a producer to the given brokers.
func NewKafka(brokers []string, topic string) (*Kafka, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerLinger(50*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("connect kafka: %w", err)
	}
	return &Kafka{client: client, topic: topic}, nil
}

func (k *Kafka) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}

	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(event.ExternalID),
		Value: payload,
	}
	if err := k.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce change event: %w", err)
	}
	return nil
}

// Close flushes pending records and releases the client.
func (k *Kafka) Close() {
	k.client.Close()
}
