package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancellationRequested,
	OrderStatusCancelled,
}

var allActors = []Actor{ActorBuyer, ActorStaff, ActorPayment}

// legalEdges mirrors the transition table; everything else must fail.
type edge struct {
	from  OrderStatus
	to    OrderStatus
	actor Actor
}

var legalEdges = map[edge]bool{
	{OrderStatusPending, OrderStatusProcessing, ActorPayment}:             true,
	{OrderStatusPending, OrderStatusCancellationRequested, ActorBuyer}:    true,
	{OrderStatusProcessing, OrderStatusCancellationRequested, ActorBuyer}: true,
	{OrderStatusShipped, OrderStatusCancellationRequested, ActorBuyer}:    true,
	{OrderStatusCancellationRequested, OrderStatusCancelled, ActorStaff}:  true,
	{OrderStatusCancellationRequested, OrderStatusProcessing, ActorStaff}: true,
	{OrderStatusProcessing, OrderStatusShipped, ActorStaff}:               true,
	{OrderStatusPending, OrderStatusDelivered, ActorStaff}:                true,
	{OrderStatusProcessing, OrderStatusDelivered, ActorStaff}:             true,
	{OrderStatusShipped, OrderStatusDelivered, ActorStaff}:                true,
	{OrderStatusCancellationRequested, OrderStatusDelivered, ActorStaff}:  true,
}

func TestTransition_FullGrid(t *testing.T) {
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			for _, actor := range allActors {
				_, err := Transition(from, to, actor)

				if legalEdges[edge{from, to, actor}] {
					assert.NoError(t, err, "%s -> %s by %s should be legal", from, to, actor)
					continue
				}

				require.Error(t, err, "%s -> %s by %s should be illegal", from, to, actor)
				if actor == ActorBuyer && from == OrderStatusCancellationRequested {
					assert.ErrorIs(t, err, ErrAlreadyPending, "%s -> %s by %s", from, to, actor)
				} else {
					assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s by %s", from, to, actor)
				}
			}
		}
	}
}

func TestTransition_PaymentCallbackMarksPaid(t *testing.T) {
	effect, err := Transition(OrderStatusPending, OrderStatusProcessing, ActorPayment)
	require.NoError(t, err)
	assert.True(t, effect.MarkPaid)
}

func TestTransition_DeliveredAlwaysMarksPaid(t *testing.T) {
	for _, from := range []OrderStatus{
		OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusCancellationRequested,
	} {
		effect, err := Transition(from, OrderStatusDelivered, ActorStaff)
		require.NoError(t, err, "from %s", from)
		assert.True(t, effect.MarkPaid, "from %s", from)
	}
}

func TestTransition_TerminalStatesAreFinal(t *testing.T) {
	for _, from := range []OrderStatus{OrderStatusDelivered, OrderStatusCancelled} {
		for _, to := range allStatuses {
			for _, actor := range allActors {
				_, err := Transition(from, to, actor)
				assert.Error(t, err, "%s -> %s by %s", from, to, actor)
			}
		}
	}
}

func TestTransition_BuyerRequestSetsReasonAndClearsRejection(t *testing.T) {
	effect, err := Transition(OrderStatusProcessing, OrderStatusCancellationRequested, ActorBuyer)
	require.NoError(t, err)
	assert.True(t, effect.SetCancellationReason)
	assert.True(t, effect.ClearRejectionReason)
}

func TestTransition_StaffRejectSetsReasonAndClearsRequest(t *testing.T) {
	effect, err := Transition(OrderStatusCancellationRequested, OrderStatusProcessing, ActorStaff)
	require.NoError(t, err)
	assert.True(t, effect.SetRejectionReason)
	assert.True(t, effect.ClearCancellationReason)
}

func TestTransition_SecondBuyerRequestIsAlreadyPending(t *testing.T) {
	_, err := Transition(OrderStatusCancellationRequested, OrderStatusCancellationRequested, ActorBuyer)
	assert.ErrorIs(t, err, ErrAlreadyPending)
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusPending.IsTerminal())
	assert.False(t, OrderStatusCancellationRequested.IsTerminal())
}
