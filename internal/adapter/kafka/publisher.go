// Package kafka publishes derived sensor states to a sink topic for
// downstream consumers such as the home-automation platform's event bus.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/eireweather/met-warnings-service/internal/domain"
)

// Publisher produces one message per area group per successful poll cycle.
// It implements pipeline.Publisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured sink topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishStates serializes and publishes the full result set of one cycle
// in a single WriteMessages call. The message key is the group name, so a
// compacted topic retains exactly the latest state per group.
func (p *Publisher) PublishStates(ctx context.Context, states []domain.DerivedSensorState) error {
	if len(states) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(states))
	for i := range states {
		msg, err := serializeState(states[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return p.writer.WriteMessages(ctx, msgs...)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeState marshals one group's state into a Kafka message.
func serializeState(state domain.DerivedSensorState) (kafkago.Message, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize sensor state: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(state.Group),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "highest_level", Value: []byte(state.HighestLevel.String())},
			{Key: "generated_at", Value: []byte(state.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
