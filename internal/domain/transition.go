package domain

import "errors"

var (
	ErrInvalidTransition = errors.New("illegal order status transition")
	ErrAlreadyPending    = errors.New("cancellation already requested")
)

// Actor identifies who is asking for a status change. The transition table
// is keyed by actor as well as by the (from, to) pair: the same edge can be
// legal for one party and illegal for another.
type Actor string

const (
	ActorBuyer   Actor = "buyer"
	ActorStaff   Actor = "staff"
	ActorPayment Actor = "payment"
)

// Effect describes the side-effect fields a legal transition implies.
// The caller applies these to the row; Transition itself never writes.
type Effect struct {
	MarkPaid                bool
	SetCancellationReason   bool
	SetRejectionReason      bool
	ClearCancellationReason bool
	ClearRejectionReason    bool
}

// Transition decides whether actor may move an order from one status to
// another. Requests outside the table fail ErrInvalidTransition. A buyer
// asking anything of an order that is already CANCELLATION_REQUESTED fails
// ErrAlreadyPending instead.
func Transition(from, to OrderStatus, actor Actor) (Effect, error) {
	if actor == ActorBuyer && from == OrderStatusCancellationRequested {
		return Effect{}, ErrAlreadyPending
	}

	switch actor {
	case ActorPayment:
		if from == OrderStatusPending && to == OrderStatusProcessing {
			return Effect{MarkPaid: true}, nil
		}

	case ActorBuyer:
		if to == OrderStatusCancellationRequested {
			switch from {
			case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped:
				// A fresh cancellation request supersedes any earlier
				// rejection, so the two reasons are never shown together.
				return Effect{SetCancellationReason: true, ClearRejectionReason: true}, nil
			}
		}

	case ActorStaff:
		switch {
		case to == OrderStatusDelivered && !from.IsTerminal():
			// Closes out cash-on-delivery orders too, so payment flips
			// regardless of whether a callback ever ran.
			return Effect{MarkPaid: true}, nil
		case from == OrderStatusCancellationRequested && to == OrderStatusCancelled:
			return Effect{}, nil
		case from == OrderStatusCancellationRequested && to == OrderStatusProcessing:
			return Effect{SetRejectionReason: true, ClearCancellationReason: true}, nil
		case from == OrderStatusProcessing && to == OrderStatusShipped:
			return Effect{}, nil
		}
	}

	return Effect{}, ErrInvalidTransition
}
