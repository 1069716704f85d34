package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/valter-tonon/digimenu/internal/address"
	"github.com/valter-tonon/digimenu/internal/checkout"
	"github.com/valter-tonon/digimenu/internal/customer"
	"github.com/valter-tonon/digimenu/internal/domain"
)

type AddressHandler struct {
	reconciler *address.Reconciler
	customers  *customer.Resolver
	checkouts  *checkout.Service
}

func NewAddressHandler(reconciler *address.Reconciler, customers *customer.Resolver, checkouts *checkout.Service) *AddressHandler {
	return &AddressHandler{
		reconciler: reconciler,
		customers:  customers,
		checkouts:  checkouts,
	}
}

type AddressBookResponseDTO struct {
	Addresses []domain.Address `json:"addresses"`
	Selected  *domain.Address  `json:"selected,omitempty"`
}

func bookResponse(book address.Book) AddressBookResponseDTO {
	resp := AddressBookResponseDTO{Addresses: book.Addresses}
	if selected, ok := book.Selected(); ok {
		resp.Selected = &selected
	}
	return resp
}

// resolveCustomerID maps the checkout session's phone to a known customer.
// Resolution failures degrade to the guest book instead of failing the request.
func (h *AddressHandler) resolveCustomerID(ctx context.Context, session string) string {
	sess := h.checkouts.Get(ctx, session)
	if sess.CustomerData.Phone == "" {
		return ""
	}
	customerID, err := h.customers.Resolve(ctx, sess.CustomerData.Phone)
	if err != nil {
		log.Printf("could not resolve customer for session %s: %v", session, err)
		return ""
	}
	return customerID
}

func (h *AddressHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())
	if session == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session id")
		return
	}

	customerID := h.resolveCustomerID(r.Context(), session)
	book, err := h.reconciler.Load(r.Context(), session, customerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, bookResponse(book))
}

func (h *AddressHandler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())
	if session == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session id")
		return
	}

	var req domain.Address
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Street == "" || req.City == "" {
		respondError(w, http.StatusBadRequest, "invalid_address", "street and city are required")
		return
	}

	customerID := h.resolveCustomerID(r.Context(), session)
	created, err := h.reconciler.Create(r.Context(), session, customerID, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *AddressHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())
	if session == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session id")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "invalid_address_id", "address id is required")
		return
	}

	var req domain.Address
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	customerID := h.resolveCustomerID(r.Context(), session)
	updated, err := h.reconciler.Update(r.Context(), session, customerID, id, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *AddressHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())
	if session == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session id")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "invalid_address_id", "address id is required")
		return
	}

	customerID := h.resolveCustomerID(r.Context(), session)
	book, err := h.reconciler.Delete(r.Context(), session, customerID, id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, bookResponse(book))
}

func (h *AddressHandler) SelectAddress(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())
	if session == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session id")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "invalid_address_id", "address id is required")
		return
	}

	customerID := h.resolveCustomerID(r.Context(), session)
	book, err := h.reconciler.Select(r.Context(), session, customerID, id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// Keep the checkout session's chosen address in step with the book.
	if selected, ok := book.Selected(); ok {
		h.checkouts.SetAddress(r.Context(), session, &selected)
	}
	respondJSON(w, http.StatusOK, bookResponse(book))
}

func (h *AddressHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())
	if session == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session id")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "invalid_address_id", "address id is required")
		return
	}

	customerID := h.resolveCustomerID(r.Context(), session)
	book, err := h.reconciler.SetDefault(r.Context(), session, customerID, id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, bookResponse(book))
}
