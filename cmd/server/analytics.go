package main

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Analytics publishes game events to kafka. A nil *Analytics drops every
// event, so the server runs fine without a broker.
type Analytics struct {
	writer *kafka.Writer
}

// Event is the message body written for every analytics event.
type Event struct {
	ID      string         `json:"id"`
	Type    string         `json:"type"`
	Slug    string         `json:"slug"`
	Time    time.Time      `json:"ts"`
	Payload map[string]any `json:"payload,omitempty"`
}

// NewAnalytics returns nil when brokers is empty. brokers is a comma
// separated list of host:port pairs.
func NewAnalytics(brokers, topic string) *Analytics {
	if brokers == "" {
		return nil
	}
	if topic == "" {
		topic = "gomoku-events"
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(strings.Split(brokers, ",")...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		Async:                  true,
		AllowAutoTopicCreation: true,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.Errorf("kafka: "+msg, args...)
		}),
	}
	return &Analytics{writer: w}
}

// Emit writes an event keyed by the game slug so one game's events stay in
// order on a single partition.
func (a *Analytics) Emit(ctx context.Context, event, slug string, payload map[string]any) {
	if a == nil || a.writer == nil {
		return
	}

	b, err := json.Marshal(Event{
		ID:      uuid.NewString(),
		Type:    event,
		Slug:    slug,
		Time:    time.Now().UTC(),
		Payload: payload,
	})
	if err != nil {
		log.Errorw("could not encode event", "event", event, zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := a.writer.WriteMessages(ctx, kafka.Message{Key: []byte(slug), Value: b}); err != nil {
		log.Errorw("kafka emit failed", "event", event, "slug", slug, zap.Error(err))
	}
}

// Close flushes pending events.
func (a *Analytics) Close() error {
	if a == nil || a.writer == nil {
		return nil
	}
	return a.writer.Close()
}
