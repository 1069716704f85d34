package checkout

import (
	"context"
	"sync"

	"github.com/valter-tonon/digimenu/internal/domain"
	"github.com/valter-tonon/digimenu/internal/notification"
)

type mockOrderClient struct {
	m        sync.Mutex
	identify string
	err      error
	requests []*domain.OrderRequest
}

func (m *mockOrderClient) CreateOrder(_ context.Context, req *domain.OrderRequest) (string, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.requests = append(m.requests, req)
	if m.err != nil {
		return "", m.err
	}
	return m.identify, nil
}

func (m *mockOrderClient) lastRequest() *domain.OrderRequest {
	m.m.Lock()
	defer m.m.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

type mockNotifier struct {
	m    sync.Mutex
	sent []notification.OrderConfirmation
	err  error
}

func (m *mockNotifier) SendOrderConfirmation(_ context.Context, c notification.OrderConfirmation) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.sent = append(m.sent, c)
	return m.err
}

func (m *mockNotifier) sentCount() int {
	m.m.Lock()
	defer m.m.Unlock()
	return len(m.sent)
}

type mockAddressSaver struct {
	m     sync.Mutex
	saved []domain.Address
	err   error
}

func (m *mockAddressSaver) CreateAddress(_ context.Context, _ string, addr domain.Address) (domain.Address, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return domain.Address{}, m.err
	}
	m.saved = append(m.saved, addr)
	return addr, nil
}

func (m *mockAddressSaver) savedCount() int {
	m.m.Lock()
	defer m.m.Unlock()
	return len(m.saved)
}

type mockCustomerResolver struct {
	customerID string
	err        error
}

func (m *mockCustomerResolver) Resolve(context.Context, string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.customerID, nil
}
