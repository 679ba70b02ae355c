package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/abdulrazikehab/Dawah-sub000/internal/domain"
	"github.com/abdulrazikehab/Dawah-sub000/pkg/logger"
)

// ErrorResponse is the structured JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	// CheckedInAt carries the original check-in time on DUPLICATE_CHECKIN
	// so staff can tell "already processed" from a fault.
	CheckedInAt *time.Time `json:"checked_in_at,omitempty"`
}

// Error codes in the domain taxonomy plus transport-level ones.
const (
	CodeInvalidInput          = "INVALID_INPUT"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeForbidden             = "FORBIDDEN"
	CodeNotFound              = "NOT_FOUND"
	CodeDuplicateGuest        = "DUPLICATE_GUEST"
	CodeQuotaExceeded         = "QUOTA_EXCEEDED"
	CodeInvalidRSVPTransition = "INVALID_RSVP_TRANSITION"
	CodeDuplicateCheckIn      = "DUPLICATE_CHECKIN"
	CodeInternalError         = "INTERNAL_ERROR"
)

// WriteError writes a structured JSON error response
func WriteError(w http.ResponseWriter, statusCode int, message string, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errResp := ErrorResponse{
		Error: message,
		Code:  code,
	}

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		logger.Error("failed to encode error response", "error", err)
	}
}

// Domain maps a recovered domain failure to its HTTP shape. Anything outside
// the taxonomy is a transient storage error: generic 500, safe to retry.
func Domain(w http.ResponseWriter, err error) {
	var dup *domain.DuplicateCheckInError
	switch {
	case errors.As(err, &dup):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		resp := ErrorResponse{
			Error:       dup.Error(),
			Code:        CodeDuplicateCheckIn,
			CheckedInAt: &dup.CheckedInAt,
		}
		if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
			logger.Error("failed to encode error response", "error", encErr)
		}
	case errors.Is(err, domain.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not found", CodeNotFound)
	case errors.Is(err, domain.ErrUnauthorized):
		WriteError(w, http.StatusForbidden, "not permitted", CodeForbidden)
	case errors.Is(err, domain.ErrDuplicateGuest):
		WriteError(w, http.StatusConflict, err.Error(), CodeDuplicateGuest)
	case errors.Is(err, domain.ErrQuotaExceeded):
		WriteError(w, http.StatusBadRequest, err.Error(), CodeQuotaExceeded)
	case errors.Is(err, domain.ErrInvalidRSVPTransition):
		WriteError(w, http.StatusBadRequest, err.Error(), CodeInvalidRSVPTransition)
	case errors.Is(err, domain.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, err.Error(), CodeInvalidInput)
	default:
		WriteError(w, http.StatusInternalServerError, "internal error", CodeInternalError)
	}
}

// Convenience functions for common errors
func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message, CodeInvalidInput)
}

func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message, CodeUnauthorized)
}

func Forbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message, CodeForbidden)
}

func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message, CodeNotFound)
}

func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message, CodeInternalError)
}
