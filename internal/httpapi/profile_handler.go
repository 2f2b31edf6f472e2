package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/domain"
	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/service"
)

type ProfileHandler struct {
	profile *service.ProfileSyncService
	timeout time.Duration
}

func NewProfileHandler(profile *service.ProfileSyncService, timeout time.Duration) *ProfileHandler {
	return &ProfileHandler{profile: profile, timeout: timeout}
}

type SyncAdminRequestDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	OldEmail string `json:"old_email"`
}

type SyncAdminResponseDTO struct {
	Skipped bool `json:"skipped"`
}

// PUT /users/sync-admin
func (h *ProfileHandler) SyncAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SyncAdminRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	skipped, err := h.profile.SyncAdmin(ctx, service.SyncAdminInput{
		Name:     req.Name,
		Email:    req.Email,
		Avatar:   req.Avatar,
		OldEmail: req.OldEmail,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, SyncAdminResponseDTO{Skipped: skipped})
}

type ProfileDTO struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// GET /settings/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	profile, err := h.profile.GetProfile(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ProfileDTO{
		Name:   profile.Name,
		Email:  profile.Email,
		Avatar: profile.Avatar,
	})
}

type SaveProfileRequestDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	OldEmail string `json:"old_email"`
}

type SaveProfileResponseDTO struct {
	Profile ProfileDTO `json:"profile"`
	Skipped bool       `json:"skipped"`
}

// PUT /settings/profile — saves the editable surface and runs the one-way
// admin sync.
func (h *ProfileHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SaveProfileRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	skipped, err := h.profile.SaveProfile(ctx, domain.Profile{
		Name:   req.Name,
		Email:  req.Email,
		Avatar: req.Avatar,
	}, req.OldEmail)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, SaveProfileResponseDTO{
		Profile: ProfileDTO{Name: req.Name, Email: req.Email, Avatar: req.Avatar},
		Skipped: skipped,
	})
}
