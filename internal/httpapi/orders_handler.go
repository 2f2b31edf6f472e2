package httpapi

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/buyercache"
	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/domain"
	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/service"
)

type OrdersHandler struct {
	orders  *service.OrderService
	caches  *buyercache.Manager
	timeout time.Duration
}

func NewOrdersHandler(orders *service.OrderService, caches *buyercache.Manager, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{orders: orders, caches: caches, timeout: timeout}
}

type OrderItemDTO struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

type OrderResponseDTO struct {
	ID                 string         `json:"id"`
	CustomerName       string         `json:"customer_name"`
	CustomerContact    string         `json:"customer_contact"`
	Items              []OrderItemDTO `json:"items"`
	Amount             int64          `json:"amount"`
	Status             string         `json:"status"`
	PaymentStatus      string         `json:"payment_status"`
	PaymentMethod      string         `json:"payment_method"`
	CancellationReason string         `json:"cancellation_reason,omitempty"`
	RejectionReason    string         `json:"rejection_reason,omitempty"`
	CreatedAt          string         `json:"created_at"`
	DisplayDate        string         `json:"display_date"`
}

func convertOrder(o *domain.Order) OrderResponseDTO {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}

	return OrderResponseDTO{
		ID:                 o.ID,
		CustomerName:       o.CustomerName,
		CustomerContact:    o.CustomerContact,
		Items:              items,
		Amount:             o.Amount,
		Status:             string(o.Status),
		PaymentStatus:      string(o.PaymentStatus),
		PaymentMethod:      o.PaymentMethod,
		CancellationReason: o.CancellationReason,
		RejectionReason:    o.RejectionReason,
		CreatedAt:          o.CreatedAt.Format(time.RFC3339),
		DisplayDate:        o.DisplayDate,
	}
}

type CreateOrderRequestDTO struct {
	CustomerName    string         `json:"customer_name"`
	CustomerContact string         `json:"customer_contact"`
	Items           []OrderItemDTO `json:"items"`
	Amount          int64          `json:"amount"`
	PaymentMethod   string         `json:"payment_method"`
}

type CreateOrderResponseDTO struct {
	Order      OrderResponseDTO `json:"order"`
	PaymentURL string           `json:"payment_url"`
}

// POST /orders
func (h *OrdersHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CreateOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, domain.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}

	order, paymentURL, err := h.orders.CreateOrder(ctx, service.CreateOrderInput{
		CustomerName:    req.CustomerName,
		CustomerContact: req.CustomerContact,
		Items:           items,
		Amount:          req.Amount,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// Optimistic local write: the buyer's own action lands in their cache
	// immediately, without waiting for any feed round trip. Failure here
	// never fails the order.
	if buyerID := getBuyerIDFromContext(r.Context()); buyerID != "" {
		h.cacheOptimistically(ctx, buyerID, order)
	}

	respondJSON(w, http.StatusCreated, CreateOrderResponseDTO{
		Order:      convertOrder(order),
		PaymentURL: paymentURL,
	})
}

func (h *OrdersHandler) cacheOptimistically(ctx context.Context, buyerID string, order *domain.Order) {
	cache := h.caches.ForBuyer(buyerID)
	if !cache.Loaded() {
		if err := cache.Load(ctx); err != nil {
			log.Printf("orders: skipping optimistic cache write for buyer %s: %v", buyerID, err)
			return
		}
	}
	if err := cache.Put(ctx, buyercache.FromOrder(order, estimateETA(order))); err != nil {
		log.Printf("orders: optimistic cache write failed for buyer %s: %v", buyerID, err)
	}
}

// POST /orders/simulate-success/{order_id}
func (h *OrdersHandler) SimulateSuccess(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID := chi.URLParam(r, "order_id")
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "missing_order_id", "order_id is required")
		return
	}

	order, err := h.orders.SimulatePaymentSuccess(ctx, orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, convertOrder(order))
}

type CancelOrderRequestDTO struct {
	Reason string `json:"reason"`
}

// POST /orders/cancel/{order_id}
func (h *OrdersHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID := chi.URLParam(r, "order_id")
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "missing_order_id", "order_id is required")
		return
	}

	var req CancelOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, err := h.orders.RequestCancellation(ctx, orderID, req.Reason)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, convertOrder(order))
}

type UpdateStatusRequestDTO struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejection_reason"`
}

// PUT /orders/status/{order_id}
func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID := chi.URLParam(r, "order_id")
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "missing_order_id", "order_id is required")
		return
	}

	var req UpdateStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, err := h.orders.UpdateStatus(ctx, orderID, domain.OrderStatus(req.Status), req.RejectionReason)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, convertOrder(order))
}

type EditOrderRequestDTO struct {
	CustomerName    *string        `json:"customer_name"`
	CustomerContact *string        `json:"customer_contact"`
	Items           []OrderItemDTO `json:"items"`
	Amount          *int64         `json:"amount"`
	PaymentMethod   *string        `json:"payment_method"`
}

// PUT /orders/{order_id}
func (h *OrdersHandler) EditOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID := chi.URLParam(r, "order_id")
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "missing_order_id", "order_id is required")
		return
	}

	var req EditOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	in := service.EditOrderInput{
		CustomerName:    req.CustomerName,
		CustomerContact: req.CustomerContact,
		Amount:          req.Amount,
		PaymentMethod:   req.PaymentMethod,
	}
	if req.Items != nil {
		items := make([]domain.OrderItem, 0, len(req.Items))
		for _, item := range req.Items {
			items = append(items, domain.OrderItem{
				ProductID: item.ProductID,
				Name:      item.Name,
				Image:     item.Image,
				UnitPrice: item.UnitPrice,
				Quantity:  item.Quantity,
			})
		}
		in.Items = items
	}

	order, err := h.orders.UpdateOrder(ctx, orderID, in)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, convertOrder(order))
}

// DELETE /orders/{order_id}
func (h *OrdersHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID := chi.URLParam(r, "order_id")
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "missing_order_id", "order_id is required")
		return
	}

	if err := h.orders.DeleteOrder(ctx, orderID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GET /orders/{order_id}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID := chi.URLParam(r, "order_id")
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "missing_order_id", "order_id is required")
		return
	}

	order, err := h.orders.GetOrder(ctx, orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, convertOrder(order))
}

type ExistsResponseDTO struct {
	IDs []string `json:"ids"`
}

// GET /orders/exists?ids=a,b,c — the reconciliation existence query.
func (h *OrdersHandler) Exists(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ids := splitIDs(r.URL.Query().Get("ids"))
	if len(ids) == 0 {
		respondJSON(w, http.StatusOK, ExistsResponseDTO{IDs: []string{}})
		return
	}

	existing, err := h.orders.ExistingIDs(ctx, ids)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ExistsResponseDTO{IDs: existing})
}

func splitIDs(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func estimateETA(order *domain.Order) string {
	return order.CreatedAt.AddDate(0, 0, 5).Format(domain.DisplayDateLayout)
}
