package http

import (
	"net/http"

	"github.com/stridehq/stride/internal/domain/user"
	"github.com/stridehq/stride/internal/middleware"
)

// Register creates a new user account.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[user.CreateRequest](w, r)
	if !ok {
		return
	}

	u, err := h.Auth.Register(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// Login authenticates a user and returns an access token.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[user.LoginRequest](w, r)
	if !ok {
		return
	}

	resp, err := h.Auth.Login(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetCurrentUser returns the authenticated user's profile.
func (h *Handlers) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	fresh, err := h.Auth.GetUser(r.Context(), u.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fresh)
}

// UpdateCurrentUser applies a partial profile update. Lowering
// availableHoursPerWeek below the committed active-goal hours is rejected
// with a budget conflict.
func (h *Handlers) UpdateCurrentUser(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	req, ok := readJSON[user.UpdateRequest](w, r)
	if !ok {
		return
	}

	updated, err := h.Auth.UpdateUser(r.Context(), u.ID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
