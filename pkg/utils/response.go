package utils

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"stockflow-backend/internal/apperrors"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[HTTP] failed to encode response: %v", err)
	}
}

func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

// ServiceError maps domain errors onto HTTP status codes. Unknown
// errors become 500 with a generic message so internals never leak.
func ServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, apperrors.ErrInvalidStateTransition),
		errors.Is(err, apperrors.ErrDuplicateReference):
		Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, apperrors.ErrInsufficientStock),
		errors.Is(err, apperrors.ErrInsufficientAvailableStock),
		errors.Is(err, apperrors.ErrInvalidApprovalQuantity),
		errors.Is(err, apperrors.ErrValidation):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		Error(w, http.StatusServiceUnavailable, err.Error())
	default:
		log.Printf("[HTTP] internal error: %v", err)
		Error(w, http.StatusInternalServerError, "internal server error")
	}
}
