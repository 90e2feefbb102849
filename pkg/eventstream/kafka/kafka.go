// Package kafka publishes turn-recorded events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	segmentio "github.com/segmentio/kafka-go"

	"github.com/quillhq/scribe/pkg/eventstream"
)

// DefaultTopic is the topic used when none is configured.
const DefaultTopic = "scribe.turns"

// Publisher writes events to a Kafka topic, keyed by persona so one
// persona's turns stay ordered within a partition.
type Publisher struct {
	writer *segmentio.Writer
}

// New creates a publisher for the given brokers and topic. An empty topic
// selects DefaultTopic.
func New(brokers []string, topic string) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}

	return &Publisher{
		writer: &segmentio.Writer{
			Addr:     segmentio.TCP(brokers...),
			Topic:    topic,
			Balancer: &segmentio.LeastBytes{},
		},
	}
}

// Publish encodes the event as JSON and writes it keyed by persona.
func (p *Publisher) Publish(ctx context.Context, event *eventstream.TurnRecordedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding turn event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, segmentio.Message{
		Key:   []byte(event.Persona),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("publishing turn event: %w", err)
	}

	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
