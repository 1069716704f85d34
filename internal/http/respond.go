package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/valter-tonon/digimenu/internal/address"
	"github.com/valter-tonon/digimenu/internal/checkout"
	"github.com/valter-tonon/digimenu/internal/menu"
	"github.com/valter-tonon/digimenu/internal/tracking"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: "",
	})
}

// handleServiceError maps domain sentinel errors to HTTP status codes.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkout.ErrStepIncomplete):
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, checkout.ErrStepNotReachable):
		respondError(w, http.StatusBadRequest, "step_not_reachable", err.Error())
	case errors.Is(err, checkout.ErrNotAtConfirmation):
		respondError(w, http.StatusConflict, "invalid_state", err.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusConflict, "empty_cart", err.Error())
	case errors.Is(err, address.ErrAddressNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, menu.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, tracking.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
