// Package events publishes sales activity for downstream consumers such as
// a bookkeeping export. Publishing is best effort: the store is the source
// of truth.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	ReceiptArchived = "receipt_archived"
	ReceiptDeleted  = "receipt_deleted"
	ShiftClosed     = "shift_closed"
	CatalogImported = "catalog_imported"
)

type Event struct {
	Type    string    `json:"type"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, key string, ev Event) error
	Close() error
}

type Producer struct {
	writer *kafka.Writer
	topic  string
}

func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		topic: topic,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
			BatchTimeout:           50 * time.Millisecond,
			WriteTimeout:           5 * time.Second,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, key string, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.topic,
		Key:   []byte(key),
		Value: data,
	}); err != nil {
		return fmt.Errorf("kafka: write %s: %w", ev.Type, err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

type Noop struct{}

func (Noop) Publish(context.Context, string, Event) error { return nil }
func (Noop) Close() error                                  { return nil }

// Memory keeps events in order; used by tests and local debugging.
type Memory struct {
	mu     sync.Mutex
	Events []Event
}

func (m *Memory) Publish(_ context.Context, _ string, ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, ev)
	return nil
}

func (m *Memory) Close() error { return nil }

func (m *Memory) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.Events))
	for _, e := range m.Events {
		out = append(out, e.Type)
	}
	return out
}

func New(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		return Noop{}
	}
	return NewProducer(brokers, topic)
}
