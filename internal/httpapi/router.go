package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/buyercache"
	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/console"
	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/service"
)

type Config struct {
	Orders         *service.OrderService
	Catalog        *service.CatalogService
	Profile        *service.ProfileSyncService
	View           *console.LiveView
	BuyerCaches    *buyercache.Manager
	RequestTimeout time.Duration
}

// NewRouter assembles the full REST surface.
func NewRouter(cfg Config) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	ordersHandler := NewOrdersHandler(cfg.Orders, cfg.BuyerCaches, cfg.RequestTimeout)
	myOrdersHandler := NewMyOrdersHandler(cfg.BuyerCaches, cfg.Orders, cfg.RequestTimeout)
	consoleHandler := NewConsoleHandler(cfg.View)
	profileHandler := NewProfileHandler(cfg.Profile, cfg.RequestTimeout)
	catalogHandler := NewCatalogHandler(cfg.Catalog, cfg.RequestTimeout)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(BuyerMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", consoleHandler.ListOrders)
		r.Post("/", ordersHandler.CreateOrder)
		r.Get("/exists", ordersHandler.Exists)
		r.Post("/simulate-success/{order_id}", ordersHandler.SimulateSuccess)
		r.Post("/cancel/{order_id}", ordersHandler.CancelOrder)
		r.Put("/status/{order_id}", ordersHandler.UpdateStatus)
		r.Get("/{order_id}", ordersHandler.GetOrder)
		r.Put("/{order_id}", ordersHandler.EditOrder)
		r.Delete("/{order_id}", ordersHandler.DeleteOrder)
	})

	r.Get("/my-orders", myOrdersHandler.List)

	r.Put("/users/sync-admin", profileHandler.SyncAdmin)

	r.Route("/settings", func(r chi.Router) {
		r.Get("/profile", profileHandler.GetProfile)
		r.Put("/profile", profileHandler.SaveProfile)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", catalogHandler.ListProducts)
		r.Post("/", catalogHandler.CreateProduct)
		r.Put("/{product_id}", catalogHandler.UpdateProduct)
		r.Delete("/{product_id}", catalogHandler.DeleteProduct)
	})

	r.Route("/customers", func(r chi.Router) {
		r.Get("/", catalogHandler.ListCustomers)
		r.Post("/", catalogHandler.CreateCustomer)
		r.Put("/{customer_id}", catalogHandler.UpdateCustomer)
		r.Delete("/{customer_id}", catalogHandler.DeleteCustomer)
	})

	return r
}
