package http

import (
	"encoding/json"
	"net/http"

	"github.com/valter-tonon/digimenu/internal/checkout"
	"github.com/valter-tonon/digimenu/internal/domain"
)

type CheckoutHandler struct {
	service *checkout.Service
}

func NewCheckoutHandler(service *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

type CustomerDataRequestDTO struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

type SelectAddressRequestDTO struct {
	Address domain.Address `json:"address"`
}

type PaymentMethodRequestDTO struct {
	Method string `json:"method"`
}

type OrderNotesRequestDTO struct {
	Notes string `json:"notes"`
}

type GoToStepRequestDTO struct {
	Step string `json:"step"`
}

type CheckoutResponseDTO struct {
	Session domain.CheckoutSession `json:"session"`
	Steps   []domain.Step          `json:"steps"`
}

type SubmitResponseDTO struct {
	Identify string `json:"identify"`
}

func checkoutResponse(sess domain.CheckoutSession) CheckoutResponseDTO {
	return CheckoutResponseDTO{
		Session: sess,
		Steps:   domain.StepSequence(sess.IsDelivery),
	}
}

func (h *CheckoutHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())
	if session == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session id")
		return
	}

	sess := h.service.Get(r.Context(), session)
	respondJSON(w, http.StatusOK, checkoutResponse(sess))
}

func (h *CheckoutHandler) SetCustomerData(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())
	if session == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session id")
		return
	}

	var req CustomerDataRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sess := h.service.SetCustomerData(r.Context(), session, domain.CustomerData{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
	})
	respondJSON(w, http.StatusOK, checkoutResponse(sess))
}

func (h *CheckoutHandler) SelectAddress(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())
	if session == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session id")
		return
	}

	var req SelectAddressRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sess := h.service.SetAddress(r.Context(), session, &req.Address)
	respondJSON(w, http.StatusOK, checkoutResponse(sess))
}

func (h *CheckoutHandler) SetPaymentMethod(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())
	if session == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session id")
		return
	}

	var req PaymentMethodRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	method := domain.PaymentMethod(req.Method)
	if !method.Valid() {
		respondError(w, http.StatusBadRequest, "invalid_payment_method", "unknown payment method")
		return
	}

	sess := h.service.SetPaymentMethod(r.Context(), session, method)
	respondJSON(w, http.StatusOK, checkoutResponse(sess))
}

func (h *CheckoutHandler) SetOrderNotes(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())
	if session == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session id")
		return
	}

	var req OrderNotesRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sess := h.service.SetOrderNotes(r.Context(), session, req.Notes)
	respondJSON(w, http.StatusOK, checkoutResponse(sess))
}

func (h *CheckoutHandler) Advance(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())
	if session == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session id")
		return
	}

	sess, err := h.service.Advance(r.Context(), session)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, checkoutResponse(sess))
}

func (h *CheckoutHandler) GoBack(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())
	if session == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session id")
		return
	}

	sess := h.service.GoBack(r.Context(), session)
	respondJSON(w, http.StatusOK, checkoutResponse(sess))
}

func (h *CheckoutHandler) GoToStep(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())
	if session == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session id")
		return
	}

	var req GoToStepRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sess, err := h.service.GoToStep(r.Context(), session, domain.Step(req.Step))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, checkoutResponse(sess))
}

func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())
	if session == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session id")
		return
	}

	identify, err := h.service.Submit(r.Context(), session)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, SubmitResponseDTO{Identify: identify})
}

func (h *CheckoutHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())
	if session == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session id")
		return
	}

	h.service.Abandon(r.Context(), session)
	w.WriteHeader(http.StatusNoContent)
}
