package feed

import (
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventFromMessage(t *testing.T) {
	msg := kafka.Message{
		Key:   []byte("order-1"),
		Value: []byte(`{"id":"order-1"}`),
		Headers: []kafka.Header{
			{Key: "event_kind", Value: []byte(EventCreated)},
			{Key: "table", Value: []byte(TableOrders)},
		},
	}

	evt, err := eventFromMessage(msg)
	require.NoError(t, err)
	assert.Equal(t, EventCreated, evt.Kind)
	assert.Equal(t, TableOrders, evt.Table)
	assert.JSONEq(t, `{"id":"order-1"}`, string(evt.Row))
}

func TestEventFromMessage_UnknownKind(t *testing.T) {
	msg := kafka.Message{
		Headers: []kafka.Header{
			{Key: "event_kind", Value: []byte("MUTATED")},
			{Key: "table", Value: []byte(TableOrders)},
		},
	}

	_, err := eventFromMessage(msg)
	assert.Error(t, err)
}

func TestEventFromMessage_MissingTable(t *testing.T) {
	msg := kafka.Message{
		Headers: []kafka.Header{
			{Key: "event_kind", Value: []byte(EventDeleted)},
		},
	}

	_, err := eventFromMessage(msg)
	assert.Error(t, err)
}
