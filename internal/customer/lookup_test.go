package customer

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valter-tonon/digimenu/internal/domain"
	"github.com/valter-tonon/digimenu/internal/storage"
)

type mockLookup struct {
	m        sync.Mutex
	customer *domain.Customer
	err      error
	calls    int
}

func (m *mockLookup) FindByPhone(_ context.Context, phone, _ string) (*domain.Customer, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.customer, nil
}

func (m *mockLookup) callCount() int {
	m.m.Lock()
	defer m.m.Unlock()
	return m.calls
}

func newResolverSUT(t *testing.T, lookup Lookup) (*Resolver, storage.Store) {
	t.Helper()
	st := storage.NewMemoryStore()
	t.Cleanup(st.Close)
	return NewResolver(lookup, st, "tenant-1"), st
}

// waits for the asynchronous cache write to land.
func waitForCache(t *testing.T, st storage.Store, digits string) {
	t.Helper()
	require.Eventually(t, func() bool {
		_, err := st.Get(context.Background(), phoneKey(digits))
		return err == nil
	}, time.Second, 10*time.Millisecond, "cache write did not land")
}

func TestResolve_KnownPhone(t *testing.T) {
	lookup := &mockLookup{customer: &domain.Customer{ID: "cust-1", Name: "Ana", Phone: "11999998888"}}
	sut, _ := newResolverSUT(t, lookup)

	id, err := sut.Resolve(context.Background(), "(11) 99999-8888")

	require.NoError(t, err)
	assert.Equal(t, "cust-1", id)
}

func TestResolve_UnknownPhoneIsGuest(t *testing.T) {
	lookup := &mockLookup{err: ErrCustomerNotFound}
	sut, _ := newResolverSUT(t, lookup)

	id, err := sut.Resolve(context.Background(), "11999998888")

	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestResolve_EmptyPhoneSkipsLookup(t *testing.T) {
	lookup := &mockLookup{}
	sut, _ := newResolverSUT(t, lookup)

	id, err := sut.Resolve(context.Background(), "no digits here")

	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Equal(t, 0, lookup.callCount())
}

func TestResolve_LookupErrorPropagates(t *testing.T) {
	lookup := &mockLookup{err: fmt.Errorf("mongo down")}
	sut, _ := newResolverSUT(t, lookup)

	_, err := sut.Resolve(context.Background(), "11999998888")
	require.ErrorContains(t, err, "mongo down")
}

func TestResolve_CachesHit(t *testing.T) {
	lookup := &mockLookup{customer: &domain.Customer{ID: "cust-1", Phone: "11999998888"}}
	sut, st := newResolverSUT(t, lookup)
	ctx := context.Background()

	_, err := sut.Resolve(ctx, "11999998888")
	require.NoError(t, err)
	waitForCache(t, st, "11999998888")

	id, err := sut.Resolve(ctx, "11999998888")
	require.NoError(t, err)
	assert.Equal(t, "cust-1", id)
	assert.Equal(t, 1, lookup.callCount())
}

func TestResolve_FormattedAndBarePhonesShareCacheKey(t *testing.T) {
	lookup := &mockLookup{customer: &domain.Customer{ID: "cust-1", Phone: "11999998888"}}
	sut, st := newResolverSUT(t, lookup)
	ctx := context.Background()

	id1, err := sut.Resolve(ctx, "(11) 99999-8888")
	require.NoError(t, err)
	waitForCache(t, st, "11999998888")

	id2, err := sut.Resolve(ctx, "11999998888")
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
	assert.Equal(t, 1, lookup.callCount())
}
