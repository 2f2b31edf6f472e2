package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/domain"
	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/repository"
	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/service"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: "",
	})
}

// handleServiceError maps the service taxonomy onto HTTP statuses.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "order_not_found", "order not found")
	case errors.Is(err, service.ErrNoAdminFound):
		respondError(w, http.StatusNotFound, "no_admin_found", "no admin user found")
	case errors.Is(err, repository.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
	case errors.Is(err, repository.ErrCustomerNotFound):
		respondError(w, http.StatusNotFound, "customer_not_found", "customer not found")
	case errors.Is(err, repository.ErrProfileNotFound):
		respondError(w, http.StatusNotFound, "profile_not_found", "profile not set")
	case errors.Is(err, service.ErrEmptyReason):
		respondError(w, http.StatusBadRequest, "empty_reason", "reason must not be empty")
	case errors.Is(err, service.ErrValidation):
		respondError(w, http.StatusBadRequest, "invalid_payload", err.Error())
	case errors.Is(err, domain.ErrAlreadyPending):
		respondError(w, http.StatusConflict, "already_pending", "cancellation already requested")
	case errors.Is(err, domain.ErrInvalidTransition):
		respondError(w, http.StatusConflict, "invalid_transition", "requested status change is not allowed")
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
