package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/service"
)

type CatalogHandler struct {
	catalog *service.CatalogService
	timeout time.Duration
}

func NewCatalogHandler(catalog *service.CatalogService, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, timeout: timeout}
}

type ProductRequestDTO struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Image string `json:"image"`
	Stock int    `json:"stock"`
}

// POST /products
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	product, err := h.catalog.CreateProduct(ctx, req.Name, req.Price, req.Image, req.Stock)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, product)
}

// GET /products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.ListProducts(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, products)
}

// PUT /products/{product_id}
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID := chi.URLParam(r, "product_id")

	var req ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	product, err := h.catalog.GetProduct(ctx, productID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	product.Name = req.Name
	product.Price = req.Price
	product.Image = req.Image
	product.Stock = req.Stock

	updated, err := h.catalog.UpdateProduct(ctx, product)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// DELETE /products/{product_id}
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.catalog.DeleteProduct(ctx, chi.URLParam(r, "product_id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type CustomerRequestDTO struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// POST /customers
func (h *CatalogHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CustomerRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	customer, err := h.catalog.CreateCustomer(ctx, req.Name, req.Phone, req.Address)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, customer)
}

// GET /customers
func (h *CatalogHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	customers, err := h.catalog.ListCustomers(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, customers)
}

// PUT /customers/{customer_id}
func (h *CatalogHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	customerID := chi.URLParam(r, "customer_id")

	var req CustomerRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	customer, err := h.catalog.GetCustomer(ctx, customerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	customer.Name = req.Name
	customer.Phone = req.Phone
	customer.Address = req.Address

	updated, err := h.catalog.UpdateCustomer(ctx, customer)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// DELETE /customers/{customer_id}
func (h *CatalogHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.catalog.DeleteCustomer(ctx, chi.URLParam(r, "customer_id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
