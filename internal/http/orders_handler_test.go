package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valter-tonon/digimenu/internal/tracking"
)

type mockTrackingRepo struct {
	mu     sync.Mutex
	orders map[string]*tracking.TrackedOrder
}

func newMockTrackingRepo(orders ...*tracking.TrackedOrder) *mockTrackingRepo {
	m := &mockTrackingRepo{orders: make(map[string]*tracking.TrackedOrder)}
	for _, o := range orders {
		m.orders[o.Identify] = o
	}
	return m
}

func (m *mockTrackingRepo) CreateOrder(ctx context.Context, order *tracking.TrackedOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[order.Identify]; ok {
		return tracking.ErrDuplicateOrder
	}
	m.orders[order.Identify] = order
	return nil
}

func (m *mockTrackingRepo) GetOrderByIdentify(ctx context.Context, identify string) (*tracking.TrackedOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[identify]
	if !ok {
		return nil, tracking.ErrOrderNotFound
	}
	return order, nil
}

func (m *mockTrackingRepo) ListOrdersByPhone(ctx context.Context, phone string) ([]*tracking.TrackedOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*tracking.TrackedOrder
	for _, o := range m.orders {
		if o.Phone == phone {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockTrackingRepo) UpdateStatus(ctx context.Context, identify string, status tracking.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[identify]
	if !ok {
		return tracking.ErrOrderNotFound
	}
	order.Status = status
	return nil
}

func newOrdersRouter(repo *mockTrackingRepo) *chi.Mux {
	handler := NewOrdersHandler(repo)
	r := chi.NewRouter()
	r.Get("/orders", handler.ListOrdersByPhone)
	r.Get("/orders/{identify}", handler.GetOrder)
	r.Put("/orders/{identify}/status", handler.UpdateStatus)
	return r
}

func trackedOrder(identify string) *tracking.TrackedOrder {
	return &tracking.TrackedOrder{
		Identify:     identify,
		StoreID:      "store-1",
		CustomerName: "Ana Souza",
		Phone:        "11999998888",
		Status:       tracking.OrderStatusReceived,
		Total:        40,
	}
}

func TestOrdersHandler_UpdateStatus(t *testing.T) {
	repo := newMockTrackingRepo(trackedOrder("ORD-123"))
	router := newOrdersRouter(repo)

	body, _ := json.Marshal(UpdateStatusRequestDTO{Status: "PREPARING"})
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("PUT", "/orders/ORD-123/status", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, recorder.Code)
	var resp tracking.TrackedOrder
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, tracking.OrderStatusPreparing, resp.Status)

	stored, err := repo.GetOrderByIdentify(context.Background(), "ORD-123")
	require.NoError(t, err)
	assert.Equal(t, tracking.OrderStatusPreparing, stored.Status)
}

func TestOrdersHandler_UpdateStatusRejectsUnknownStatus(t *testing.T) {
	repo := newMockTrackingRepo(trackedOrder("ORD-123"))
	router := newOrdersRouter(repo)

	body, _ := json.Marshal(UpdateStatusRequestDTO{Status: "BURNED"})
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("PUT", "/orders/ORD-123/status", bytes.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "invalid_status", resp.Code)

	stored, err := repo.GetOrderByIdentify(context.Background(), "ORD-123")
	require.NoError(t, err)
	assert.Equal(t, tracking.OrderStatusReceived, stored.Status)
}

func TestOrdersHandler_UpdateStatusUnknownOrder(t *testing.T) {
	router := newOrdersRouter(newMockTrackingRepo())

	body, _ := json.Marshal(UpdateStatusRequestDTO{Status: "READY"})
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("PUT", "/orders/ORD-404/status", bytes.NewReader(body)))

	require.Equal(t, http.StatusNotFound, recorder.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "not_found", resp.Code)
}

func TestOrdersHandler_GetOrder(t *testing.T) {
	router := newOrdersRouter(newMockTrackingRepo(trackedOrder("ORD-123")))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/orders/ORD-123", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	var resp tracking.TrackedOrder
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "ORD-123", resp.Identify)
	assert.Equal(t, "store-1", resp.StoreID)
}

func TestOrdersHandler_ListOrdersRequiresPhone(t *testing.T) {
	router := newOrdersRouter(newMockTrackingRepo())

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/orders", nil))

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "invalid_phone", resp.Code)
}
