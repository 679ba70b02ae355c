package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/abdulrazikehab/Dawah-sub000/internal/http/response"
	"github.com/abdulrazikehab/Dawah-sub000/pkg/logger"
)

type checkInRequest struct {
	Credential string `json:"credential"`
}

// CheckIn records arrival from a scanned credential. The same credential
// scanned twice yields DUPLICATE_CHECKIN with the original timestamp.
func (h *Handlers) CheckIn(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req checkInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}
	if req.Credential == "" {
		response.BadRequest(w, "Credential is required")
		return
	}

	guest, err := h.checkInService.CheckIn(r.Context(), principal, req.Credential)
	if err != nil {
		response.Domain(w, err)
		return
	}

	logger.InfoContext(r.Context(), "Guest checked in",
		"guest_id", guest.ID, "event_id", guest.EventID, "performed_by", principal.ID)

	writeJSON(w, http.StatusOK, guest)
}

// UndoCheckIn reverts a mistaken scan. Admin only.
func (h *Handlers) UndoCheckIn(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	guestID, err := strconv.ParseInt(chi.URLParam(r, "guestID"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid guest ID")
		return
	}

	guest, err := h.checkInService.UndoCheckIn(r.Context(), principal, guestID)
	if err != nil {
		response.Domain(w, err)
		return
	}

	logger.InfoContext(r.Context(), "Check-in undone",
		"guest_id", guest.ID, "event_id", guest.EventID, "undone_by", principal.ID)

	writeJSON(w, http.StatusOK, guest)
}
