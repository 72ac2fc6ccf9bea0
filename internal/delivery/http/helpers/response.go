package helpers

import (
	"encoding/json"
	"errors"
	"net/http"

	"societyattendance/internal/domain"
)

// ErrorResponse is the body of every non-2xx API response.
// swagger:model ErrorResponse
type ErrorResponse struct {
	Message string `json:"message"`
}

// WriteJSON sets Content-Type to application/json, writes statusCode, and
// encodes v as the response body.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes an ErrorResponse with the given status and message.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Message: message})
}

// WriteDomainError maps a service error onto an HTTP status and writes it.
// Unrecognized errors become a 500 with a generic body so internals never
// leak to clients.
func WriteDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrDateNotFuture):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		WriteError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrDomainNotFound),
		errors.Is(err, domain.ErrEventNotFound),
		errors.Is(err, domain.ErrAttendanceNotFound),
		errors.Is(err, domain.ErrNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrEventClosed):
		WriteError(w, http.StatusConflict, "Cannot mark attendance for a closed event")
	case errors.Is(err, domain.ErrEventNotEditable):
		WriteError(w, http.StatusConflict, "Cannot update a closed event")
	case errors.Is(err, domain.ErrEventAlreadyIn),
		errors.Is(err, domain.ErrDomainNotEmpty),
		errors.Is(err, domain.ErrDuplicateEmail),
		errors.Is(err, domain.ErrDuplicateRoll),
		errors.Is(err, domain.ErrDuplicateDomain),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrConflict):
		WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrOtpInvalid),
		errors.Is(err, domain.ErrOtpExpired),
		errors.Is(err, domain.ErrOtpNotVerified):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrRateLimited):
		WriteError(w, http.StatusTooManyRequests, err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}
