package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/abdulrazikehab/Dawah-sub000/internal/http/response"
)

type assignRequest struct {
	EmployeeID int64 `json:"employee_id"`
}

// AssignEmployee grants an employee scan rights on one event. Repeating an
// existing assignment succeeds without effect.
func (h *Handlers) AssignEmployee(w http.ResponseWriter, r *http.Request) {
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

	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}
	if req.EmployeeID <= 0 {
		response.BadRequest(w, "Employee ID is required")
		return
	}

	if err := h.accessService.Assign(r.Context(), principal, eventID, req.EmployeeID); err != nil {
		response.Domain(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Employee assigned"})
}

// ListAssignedEmployees returns the staff roster for one event.
func (h *Handlers) ListAssignedEmployees(w http.ResponseWriter, r *http.Request) {
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

	employees, err := h.accessService.ListEmployees(r.Context(), principal, eventID)
	if err != nil {
		response.Domain(w, err)
		return
	}

	writeJSON(w, http.StatusOK, employees)
}
