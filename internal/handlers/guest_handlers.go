package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/abdulrazikehab/Dawah-sub000/internal/domain"
	"github.com/abdulrazikehab/Dawah-sub000/internal/http/response"
)

// AddGuest pre-invites one guest onto an event's registry.
func (h *Handlers) AddGuest(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	eventID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid event ID")
		return
	}

	var req domain.AddGuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	guest, err := h.registryService.AddPreInvitedGuest(r.Context(), principal, eventID, &req)
	if err != nil {
		response.Domain(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, guest)
}

// BulkAddGuests imports a batch of pre-invited guests.
func (h *Handlers) BulkAddGuests(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	eventID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid event ID")
		return
	}

	var req domain.BulkAddGuestsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	result, err := h.registryService.BulkAddGuests(r.Context(), principal, eventID, &req)
	if err != nil {
		response.Domain(w, err)
		return
	}

	if result.Created == nil {
		result.Created = []domain.Guest{}
	}
	if result.Failed == nil {
		result.Failed = []domain.BulkAddFailure{}
	}
	writeJSON(w, http.StatusCreated, result)
}

// ListGuests returns the registry for an event, filterable by status.
func (h *Handlers) ListGuests(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	eventID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid event ID")
		return
	}

	var filter domain.GuestFilter
	if raw := r.URL.Query().Get("rsvp_status"); raw != "" {
		st, ok := domain.ParseRSVPStatus(raw)
		if !ok {
			response.BadRequest(w, "Invalid rsvp_status parameter")
			return
		}
		filter.RSVPStatus = &st
	}
	if raw := r.URL.Query().Get("check_in_status"); raw != "" {
		st, ok := domain.ParseCheckInStatus(raw)
		if !ok {
			response.BadRequest(w, "Invalid check_in_status parameter")
			return
		}
		filter.CheckInStatus = &st
	}

	limit, offset := parsePagination(r)
	guests, err := h.registryService.ListGuests(r.Context(), principal, eventID, filter, limit, offset)
	if err != nil {
		response.Domain(w, err)
		return
	}

	if guests == nil {
		guests = []domain.Guest{}
	}
	writeJSON(w, http.StatusOK, guests)
}

// GuestStats returns registry counts for the host dashboard.
func (h *Handlers) GuestStats(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	eventID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid event ID")
		return
	}

	stats, err := h.registryService.GetStats(r.Context(), principal, eventID)
	if err != nil {
		response.Domain(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
