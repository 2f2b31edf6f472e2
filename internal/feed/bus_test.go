package feed

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID    string `json:"id"`
	Value int    `json:"value"`
}

func mustEvent(t *testing.T, kind EventKind, table string, r row) Event {
	t.Helper()
	evt, err := NewEvent(kind, table, r)
	require.NoError(t, err)
	return evt
}

func TestInProcBus_DeliversToSubscribedTableOnly(t *testing.T) {
	bus := NewInProcBus()

	var ordersSeen, productsSeen []Event
	bus.Subscribe(TableOrders, func(evt Event) { ordersSeen = append(ordersSeen, evt) })
	bus.Subscribe(TableProducts, func(evt Event) { productsSeen = append(productsSeen, evt) })

	bus.Publish(mustEvent(t, EventCreated, TableOrders, row{ID: "a"}))
	bus.Publish(mustEvent(t, EventUpdated, TableProducts, row{ID: "p"}))

	require.Len(t, ordersSeen, 1)
	require.Len(t, productsSeen, 1)
	assert.Equal(t, EventCreated, ordersSeen[0].Kind)
	assert.Equal(t, EventUpdated, productsSeen[0].Kind)
}

func TestInProcBus_SameRowOrderPreserved(t *testing.T) {
	bus := NewInProcBus()

	var values []int
	bus.Subscribe(TableOrders, func(evt Event) {
		var r row
		require.NoError(t, json.Unmarshal(evt.Row, &r))
		values = append(values, r.Value)
	})

	for i := 1; i <= 5; i++ {
		bus.Publish(mustEvent(t, EventUpdated, TableOrders, row{ID: "a", Value: i}))
	}

	assert.Equal(t, []int{1, 2, 3, 4, 5}, values)
}

func TestInProcBus_PanickingHandlerDoesNotStopDelivery(t *testing.T) {
	bus := NewInProcBus()

	var delivered int
	bus.Subscribe(TableOrders, func(Event) { panic("boom") })
	bus.Subscribe(TableOrders, func(Event) { delivered++ })

	bus.Publish(mustEvent(t, EventCreated, TableOrders, row{ID: "a"}))
	bus.Publish(mustEvent(t, EventCreated, TableOrders, row{ID: "b"}))

	assert.Equal(t, 2, delivered)
}

func TestInProcBus_Unsubscribe(t *testing.T) {
	bus := NewInProcBus()

	var delivered int
	unsubscribe := bus.Subscribe(TableOrders, func(Event) { delivered++ })

	bus.Publish(mustEvent(t, EventCreated, TableOrders, row{ID: "a"}))
	unsubscribe()
	bus.Publish(mustEvent(t, EventCreated, TableOrders, row{ID: "b"}))

	assert.Equal(t, 1, delivered)
}
