package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/domain"
	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/feed"
	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/repository"
)

// OrderService owns the order lifecycle: all writes land in the repository
// first, then exactly one change event is published per successful write.
type OrderService struct {
	repo repository.OrderRepository
	bus  feed.Bus
}

func NewOrderService(repo repository.OrderRepository, bus feed.Bus) *OrderService {
	return &OrderService{repo: repo, bus: bus}
}

type CreateOrderInput struct {
	CustomerName    string
	CustomerContact string
	Items           []domain.OrderItem
	Amount          int64
	PaymentMethod   string
}

// CreateOrder writes a new PENDING/UNPAID order and returns it together
// with the mock payment URL the buyer is redirected to.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, string, error) {
	if strings.TrimSpace(in.CustomerName) == "" {
		return nil, "", fmt.Errorf("%w: customer name is required", ErrValidation)
	}
	if len(in.Items) == 0 {
		return nil, "", fmt.Errorf("%w: at least one line item is required", ErrValidation)
	}
	for _, item := range in.Items {
		if item.Quantity < 1 {
			return nil, "", fmt.Errorf("%w: item quantity must be at least 1", ErrValidation)
		}
	}

	now := time.Now()
	order := &domain.Order{
		ID:              uuid.New().String(),
		CustomerName:    in.CustomerName,
		CustomerContact: in.CustomerContact,
		Items:           in.Items,
		Amount:          in.Amount,
		Status:          domain.OrderStatusPending,
		PaymentStatus:   domain.PaymentStatusUnpaid,
		PaymentMethod:   in.PaymentMethod,
		CreatedAt:       now,
		DisplayDate:     now.Format(domain.DisplayDateLayout),
		UpdatedAt:       now,
	}
	if order.Amount < order.ItemsTotal() {
		return nil, "", fmt.Errorf("%w: amount is below the line item total", ErrValidation)
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, "", fmt.Errorf("create order: %w", err)
	}

	s.publish(feed.EventCreated, order)
	return order, "/payments/mock/" + order.ID, nil
}

// SimulatePaymentSuccess is the payment-confirmation callback. It bypasses
// the buyer/staff actor checks but is still bound by the transition table,
// so a second call on the same order fails without touching payment state.
func (s *OrderService) SimulatePaymentSuccess(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	effect, err := domain.Transition(order.Status, domain.OrderStatusProcessing, domain.ActorPayment)
	if err != nil {
		return nil, err
	}

	order.Status = domain.OrderStatusProcessing
	s.applyEffect(order, effect, "", "")

	if err := s.repo.UpdateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("apply payment success: %w", err)
	}

	s.publish(feed.EventUpdated, order)
	return order, nil
}

// RequestCancellation is the buyer-side transition into
// CANCELLATION_REQUESTED. The reason is mandatory.
func (s *OrderService) RequestCancellation(ctx context.Context, id, reason string) (*domain.Order, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrEmptyReason
	}

	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	effect, err := domain.Transition(order.Status, domain.OrderStatusCancellationRequested, domain.ActorBuyer)
	if err != nil {
		return nil, err
	}

	order.Status = domain.OrderStatusCancellationRequested
	s.applyEffect(order, effect, reason, "")

	if err := s.repo.UpdateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("apply cancellation request: %w", err)
	}

	s.publish(feed.EventUpdated, order)
	return order, nil
}

// UpdateStatus applies a staff-side transition. Rejecting a cancellation
// request (back to PROCESSING) requires a non-empty rejection reason; an
// empty one is a validation error, not a state change.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, to domain.OrderStatus, rejectionReason string) (*domain.Order, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, to)
	}

	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	effect, err := domain.Transition(order.Status, to, domain.ActorStaff)
	if err != nil {
		return nil, err
	}
	if effect.SetRejectionReason && strings.TrimSpace(rejectionReason) == "" {
		return nil, ErrEmptyReason
	}

	order.Status = to
	s.applyEffect(order, effect, "", rejectionReason)

	if err := s.repo.UpdateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("apply status %s: %w", to, err)
	}

	s.publish(feed.EventUpdated, order)
	return order, nil
}

type EditOrderInput struct {
	CustomerName    *string
	CustomerContact *string
	Items           []domain.OrderItem
	Amount          *int64
	PaymentMethod   *string
}

// UpdateOrder is the staff free-form edit. Amount may be set to any value;
// it is never reconciled against the line items.
func (s *OrderService) UpdateOrder(ctx context.Context, id string, in EditOrderInput) (*domain.Order, error) {
	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.CustomerName != nil {
		if strings.TrimSpace(*in.CustomerName) == "" {
			return nil, fmt.Errorf("%w: customer name is required", ErrValidation)
		}
		order.CustomerName = *in.CustomerName
	}
	if in.CustomerContact != nil {
		order.CustomerContact = *in.CustomerContact
	}
	if in.Items != nil {
		for _, item := range in.Items {
			if item.Quantity < 1 {
				return nil, fmt.Errorf("%w: item quantity must be at least 1", ErrValidation)
			}
		}
		order.Items = in.Items
	}
	if in.Amount != nil {
		order.Amount = *in.Amount
	}
	if in.PaymentMethod != nil {
		order.PaymentMethod = *in.PaymentMethod
	}
	order.UpdatedAt = time.Now()

	if err := s.repo.UpdateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}

	s.publish(feed.EventUpdated, order)
	return order, nil
}

// DeleteOrder is a hard delete; the DELETED event carries the last-known
// row image.
func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteOrder(ctx, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	s.publish(feed.EventDeleted, order)
	return nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetOrderByID(ctx, id)
}

func (s *OrderService) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.ListOrders(ctx)
}

// ExistingIDs answers the buyer reconciler's batched existence query.
func (s *OrderService) ExistingIDs(ctx context.Context, ids []string) ([]string, error) {
	orders, err := s.repo.ListOrdersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	existing := make([]string, 0, len(orders))
	for _, order := range orders {
		existing = append(existing, order.ID)
	}
	return existing, nil
}

func (s *OrderService) applyEffect(order *domain.Order, effect domain.Effect, cancellationReason, rejectionReason string) {
	if effect.MarkPaid {
		order.PaymentStatus = domain.PaymentStatusPaid
	}
	if effect.SetCancellationReason {
		order.CancellationReason = cancellationReason
	}
	if effect.SetRejectionReason {
		order.RejectionReason = rejectionReason
	}
	if effect.ClearCancellationReason {
		order.CancellationReason = ""
	}
	if effect.ClearRejectionReason {
		order.RejectionReason = ""
	}
	order.UpdatedAt = time.Now()
}

func (s *OrderService) publish(kind feed.EventKind, order *domain.Order) {
	evt, err := feed.NewEvent(kind, feed.TableOrders, order)
	if err != nil {
		log.Printf("orders: failed to build %s event for %s: %v", kind, order.ID, err)
		return
	}
	s.bus.Publish(evt)
}
