package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/abdulrazikehab/Dawah-sub000/internal/domain"
	"github.com/abdulrazikehab/Dawah-sub000/internal/http/response"
)

// CreateEvent handles event creation by a host.
func (h *Handlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req domain.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	event, err := h.eventService.CreateEvent(r.Context(), principal, &req)
	if err != nil {
		response.Domain(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

// GetEvent returns an event for its host, an assigned employee or an admin.
func (h *Handlers) GetEvent(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid event ID")
		return
	}

	event, err := h.eventService.GetEvent(r.Context(), principal, id)
	if err != nil {
		response.Domain(w, err)
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// ListEvents returns the caller's own events.
func (h *Handlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	limit, offset := parsePagination(r)
	eventsList, err := h.eventService.ListHostEvents(r.Context(), principal, limit, offset)
	if err != nil {
		response.Domain(w, err)
		return
	}

	if eventsList == nil {
		eventsList = []domain.Event{}
	}
	writeJSON(w, http.StatusOK, eventsList)
}

// GetEventBySlug serves the public RSVP page lookup. No authentication;
// holding the link is the trust boundary.
func (h *Handlers) GetEventBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		response.BadRequest(w, "Invalid invitation link")
		return
	}

	event, err := h.eventService.GetEventBySlug(r.Context(), slug)
	if err != nil {
		response.Domain(w, err)
		return
	}

	// Public view: hide the host id.
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":    event.ID,
		"title": event.Title,
	})
}
