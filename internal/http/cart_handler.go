package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/valter-tonon/digimenu/internal/cart"
	"github.com/valter-tonon/digimenu/internal/domain"
)

type CartHandler struct {
	store *cart.Store
}

func NewCartHandler(store *cart.Store) *CartHandler {
	return &CartHandler{store: store}
}

type AddItemRequestDTO struct {
	ProductID   int64               `json:"product_id"`
	Name        string              `json:"name"`
	UnitPrice   float64             `json:"unit_price"`
	Quantity    int                 `json:"quantity"`
	Additionals []domain.Additional `json:"additionals,omitempty"`
	Notes       string              `json:"notes,omitempty"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartContextRequestDTO struct {
	StoreID string `json:"store_id"`
	TableID string `json:"table_id,omitempty"`
}

type DeliveryModeRequestDTO struct {
	Delivery bool `json:"delivery"`
}

type CartTTLRequestDTO struct {
	Hours int `json:"hours"`
}

type CartResponseDTO struct {
	Cart       domain.Cart `json:"cart"`
	TotalItems int         `json:"total_items"`
	TotalPrice float64     `json:"total_price"`
}

func cartResponse(c domain.Cart) CartResponseDTO {
	return CartResponseDTO{
		Cart:       c,
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice(),
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())
	if session == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session id")
		return
	}

	c := h.store.Sync(r.Context(), session)
	respondJSON(w, http.StatusOK, cartResponse(c))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())
	if session == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session id")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	line := domain.CartLine{
		ProductID:   req.ProductID,
		Name:        req.Name,
		UnitPrice:   req.UnitPrice,
		Quantity:    req.Quantity,
		Additionals: req.Additionals,
		Notes:       req.Notes,
	}

	c := h.store.AddItem(r.Context(), session, line)
	respondJSON(w, http.StatusCreated, cartResponse(c))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())
	if session == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session id")
		return
	}

	identify := chi.URLParam(r, "identify")
	if identify == "" {
		respondError(w, http.StatusBadRequest, "invalid_identify", "identify is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	c := h.store.UpdateQuantity(r.Context(), session, identify, req.Quantity)
	respondJSON(w, http.StatusOK, cartResponse(c))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())
	if session == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session id")
		return
	}

	identify := chi.URLParam(r, "identify")
	if identify == "" {
		respondError(w, http.StatusBadRequest, "invalid_identify", "identify is required")
		return
	}

	c := h.store.RemoveItem(r.Context(), session, identify)
	respondJSON(w, http.StatusOK, cartResponse(c))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())
	if session == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session id")
		return
	}

	c := h.store.Clear(r.Context(), session)
	respondJSON(w, http.StatusOK, cartResponse(c))
}

func (h *CartHandler) SetContext(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())
	if session == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session id")
		return
	}

	var req CartContextRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.StoreID == "" {
		respondError(w, http.StatusBadRequest, "invalid_store_id", "store_id is required")
		return
	}

	c := h.store.SetContext(r.Context(), session, req.StoreID, req.TableID)
	respondJSON(w, http.StatusOK, cartResponse(c))
}

func (h *CartHandler) SetDeliveryMode(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())
	if session == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session id")
		return
	}

	var req DeliveryModeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	c := h.store.SetDeliveryMode(r.Context(), session, req.Delivery)
	respondJSON(w, http.StatusOK, cartResponse(c))
}

func (h *CartHandler) SetTTL(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())
	if session == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session id")
		return
	}

	var req CartTTLRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	c := h.store.SetTTL(r.Context(), session, req.Hours)
	respondJSON(w, http.StatusOK, cartResponse(c))
}
