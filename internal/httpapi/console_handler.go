package httpapi

import (
	"net/http"

	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/console"
)

// ConsoleHandler serves the staff console's live order list straight from
// the in-memory projection, not the database.
type ConsoleHandler struct {
	view *console.LiveView
}

func NewConsoleHandler(view *console.LiveView) *ConsoleHandler {
	return &ConsoleHandler{view: view}
}

// GET /orders
func (h *ConsoleHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders := h.view.Orders()

	dtos := make([]OrderResponseDTO, 0, len(orders))
	for i := range orders {
		dtos = append(dtos, convertOrder(&orders[i]))
	}

	respondJSON(w, http.StatusOK, dtos)
}
