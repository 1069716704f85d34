package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/valter-tonon/digimenu/internal/tracking"
)

type OrdersHandler struct {
	repo tracking.OrderRepository
}

func NewOrdersHandler(repo tracking.OrderRepository) *OrdersHandler {
	return &OrdersHandler{repo: repo}
}

func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	identify := chi.URLParam(r, "identify")
	if identify == "" {
		respondError(w, http.StatusBadRequest, "invalid_identify", "identify is required")
		return
	}

	order, err := h.repo.GetOrderByIdentify(r.Context(), identify)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrdersHandler) ListOrdersByPhone(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if phone == "" {
		respondError(w, http.StatusBadRequest, "invalid_phone", "phone query parameter is required")
		return
	}

	orders, err := h.repo.ListOrdersByPhone(r.Context(), phone)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "could not list orders")
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

type UpdateStatusRequestDTO struct {
	Status string `json:"status"`
}

// UpdateStatus moves a tracked order through the kitchen lifecycle
// (RECEIVED, PREPARING, READY, DELIVERED).
func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	identify := chi.URLParam(r, "identify")
	if identify == "" {
		respondError(w, http.StatusBadRequest, "invalid_identify", "identify is required")
		return
	}

	var req UpdateStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	status := tracking.OrderStatus(req.Status)
	if !status.Valid() {
		respondError(w, http.StatusBadRequest, "invalid_status", "unknown order status")
		return
	}

	if err := h.repo.UpdateStatus(r.Context(), identify, status); err != nil {
		handleServiceError(w, err)
		return
	}

	order, err := h.repo.GetOrderByIdentify(r.Context(), identify)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}
