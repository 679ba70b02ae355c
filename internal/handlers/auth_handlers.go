package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/abdulrazikehab/Dawah-sub000/internal/domain"
	"github.com/abdulrazikehab/Dawah-sub000/internal/http/response"
)

// Login authenticates a staff account and returns a JWT.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		response.Domain(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Register creates a host account; admins may also create employees and
// other admins.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	var actor *domain.Principal
	if p, ok := principalFrom(r); ok {
		actor = &p
	}

	info, err := h.authService.Register(r.Context(), actor, &req)
	if err != nil {
		response.Domain(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, info)
}

// ListStaff returns staff accounts, filterable by role. Admin only.
func (h *Handlers) ListStaff(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var role *domain.Role
	if raw := r.URL.Query().Get("role"); raw != "" {
		parsed, ok := domain.ParseRole(raw)
		if !ok {
			response.BadRequest(w, "Invalid role parameter")
			return
		}
		role = &parsed
	}

	limit, offset := parsePagination(r)
	infos, err := h.authService.ListStaff(r.Context(), principal, role, limit, offset)
	if err != nil {
		response.Domain(w, err)
		return
	}

	writeJSON(w, http.StatusOK, infos)
}
