package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending               OrderStatus = "PENDING"
	OrderStatusProcessing            OrderStatus = "PROCESSING"
	OrderStatusShipped               OrderStatus = "SHIPPED"
	OrderStatusDelivered             OrderStatus = "DELIVERED"
	OrderStatusCancellationRequested OrderStatus = "CANCELLATION_REQUESTED"
	OrderStatusCancelled             OrderStatus = "CANCELLED"
)

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancellationRequested, OrderStatusCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "UNPAID"
	PaymentStatusPaid   PaymentStatus = "PAID"
)

type OrderItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// Order is the authoritative row shape. Amount is in minor currency units
// and is never recomputed from Items after creation; staff edits may set it
// to any value.
type Order struct {
	ID                 string        `json:"id"`
	CustomerName       string        `json:"customer_name"`
	CustomerContact    string        `json:"customer_contact"`
	Items              []OrderItem   `json:"items"`
	Amount             int64         `json:"amount"`
	Status             OrderStatus   `json:"status"`
	PaymentStatus      PaymentStatus `json:"payment_status"`
	PaymentMethod      string        `json:"payment_method"`
	CancellationReason string        `json:"cancellation_reason,omitempty"`
	RejectionReason    string        `json:"rejection_reason,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	DisplayDate        string        `json:"display_date"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// ItemsTotal sums the line items. It exists for creation-time validation
// only; the stored Amount is free to diverge from it afterwards.
func (o *Order) ItemsTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.UnitPrice * int64(item.Quantity)
	}
	return total
}

// DisplayDateLayout renders CreatedAt for buyer-facing lists.
const DisplayDateLayout = "02 Jan 2006"
