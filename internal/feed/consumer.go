package feed

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/segmentio/kafka-go"
)

// Consumer reads change events off Kafka and republishes them onto a local
// bus, so in-process subscribers see the same Event shape regardless of
// transport.
type Consumer struct {
	bus    Bus
	reader *kafka.Reader
}

func NewConsumer(bus Bus, groupID string, brokers ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    Topic,
		GroupID:  groupID,
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{bus: bus, reader: reader}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.processMessage(ctx)
	}
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		log.Printf("feed: error closing kafka reader: %v", err)
	}
}

func (c *Consumer) processMessage(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Printf("feed: error reading message: %v", err)
		return
	}

	evt, err := eventFromMessage(m)
	if err != nil {
		// Malformed messages are skipped; one bad event must not stall
		// the subscription.
		log.Printf("feed: %v", err)
		return
	}

	c.bus.Publish(evt)
}

func eventFromMessage(m kafka.Message) (Event, error) {
	var kind, table string
	for _, h := range m.Headers {
		switch h.Key {
		case "event_kind":
			kind = string(h.Value)
		case "table":
			table = string(h.Value)
		}
	}

	switch EventKind(kind) {
	case EventCreated, EventUpdated, EventDeleted:
	default:
		return Event{}, fmt.Errorf("skipping message with unknown event kind %q", kind)
	}
	if table == "" {
		return Event{}, fmt.Errorf("skipping message with missing table header, key %q", m.Key)
	}

	return Event{Kind: EventKind(kind), Table: table, Row: m.Value}, nil
}
