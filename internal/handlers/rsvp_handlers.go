package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/abdulrazikehab/Dawah-sub000/internal/domain"
	"github.com/abdulrazikehab/Dawah-sub000/internal/http/response"
	"github.com/abdulrazikehab/Dawah-sub000/internal/utils"
)

// rsvpResponse pairs the guest record with their attendance credential.
// The credential is what the external renderer encodes into the QR image.
type rsvpResponse struct {
	Guest      *domain.Guest `json:"guest"`
	Credential string        `json:"credential,omitempty"`
}

// SubmitRSVP handles a guest's own submission from a public or personalized
// link. No authentication; link knowledge is the trust boundary.
func (h *Handlers) SubmitRSVP(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid event ID")
		return
	}

	var req domain.RSVPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	guest, credential, err := h.rsvpService.SubmitRSVP(r.Context(), eventID, &req)
	if err != nil {
		response.Domain(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, rsvpResponse{Guest: guest, Credential: credential})
}

// UpdateRSVP adjusts a pre-invited guest's response via their personalized
// link. The phone in the body must match the invitation record.
func (h *Handlers) UpdateRSVP(w http.ResponseWriter, r *http.Request) {
	guestID, err := strconv.ParseInt(chi.URLParam(r, "guestID"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid guest ID")
		return
	}

	var req domain.RSVPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	req.Normalize()
	ref := domain.GuestRef{GuestID: guestID, Phone: req.Phone}
	guest, credential, err := h.rsvpService.UpdateRSVP(r.Context(), ref, &req)
	if err != nil {
		response.Domain(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rsvpResponse{Guest: guest, Credential: credential})
}

// GetCredential re-issues the attendance credential for the confirmation
// screen. Same guest, same credential, every time.
func (h *Handlers) GetCredential(w http.ResponseWriter, r *http.Request) {
	guestID, err := strconv.ParseInt(chi.URLParam(r, "guestID"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid guest ID")
		return
	}

	phone := utils.NormalizePhone(r.URL.Query().Get("phone"))
	if phone == "" {
		response.BadRequest(w, "Phone is required")
		return
	}

	credential, err := h.rsvpService.GetCredential(r.Context(), domain.GuestRef{GuestID: guestID, Phone: phone})
	if err != nil {
		response.Domain(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"credential": credential})
}
