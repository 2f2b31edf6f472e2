package feed

import (
	"context"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// Topic carries every tracked table's change events; messages are keyed by
// row id so same-row events land on one partition in write order.
const Topic = "changefeed"

// OutboxEvent is one unpublished change row, written transactionally with
// the store mutation that produced it.
type OutboxEvent struct {
	ID        int64
	Table     string
	Kind      EventKind
	RowID     string
	Payload   []byte
	CreatedAt time.Time
}

// OutboxSource is the slice of the repository the poller needs.
type OutboxSource interface {
	GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventProcessed(ctx context.Context, id int64) error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OutboxPoller ships outbox rows to Kafka. A row stays unprocessed until a
// publish succeeds, so a broker outage delays events rather than losing the
// rows; consumers still only get at-most-once delivery end to end.
type OutboxPoller struct {
	tick   time.Duration
	source OutboxSource
	writer messageWriter
}

func NewOutboxPoller(source OutboxSource, brokers ...string) *OutboxPoller {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &OutboxPoller{tick: time.Second, source: source, writer: w}
}

func (p *OutboxPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.processUnpublishedEvents(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *OutboxPoller) Close() {
	if err := p.writer.Close(); err != nil {
		log.Printf("feed: error closing kafka writer: %v", err)
	}
}

func (p *OutboxPoller) processUnpublishedEvents(ctx context.Context) {
	events, err := p.source.GetUnprocessedEvents(ctx, 100)
	if err != nil {
		log.Printf("feed: failed to fetch outbox events: %v", err)
		return
	}

	for _, event := range events {
		if errPublish := p.publish(ctx, event); errPublish != nil {
			log.Printf("feed: failed to publish outbox event id = %v: %v", event.ID, errPublish)
			continue
		}

		if errMark := p.source.MarkEventProcessed(ctx, event.ID); errMark != nil {
			log.Printf("feed: failed to mark outbox event processed id = %v: %v", event.ID, errMark)
			continue
		}
	}
}

func (p *OutboxPoller) publish(ctx context.Context, event *OutboxEvent) error {
	msg := kafka.Message{
		Key:   []byte(event.RowID),
		Value: event.Payload,
		Headers: []kafka.Header{
			{Key: "event_kind", Value: []byte(event.Kind)},
			{Key: "table", Value: []byte(event.Table)},
		},
	}
	return p.writer.WriteMessages(ctx, msg)
}
