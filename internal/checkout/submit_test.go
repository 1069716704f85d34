package checkout

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valter-tonon/digimenu/internal/domain"
)

// walks the session to the confirmation step for a takeout order with two
// distinct lines in the cart.
func (f *fixture) reachConfirmation(t *testing.T, session string) {
	t.Helper()
	ctx := context.Background()

	f.carts.SetContext(ctx, session, "store-1", "")
	f.carts.AddItem(ctx, session, domain.CartLine{
		ProductID: 42,
		Name:      "Margherita",
		UnitPrice: 20,
		Quantity:  2,
	})
	f.carts.AddItem(ctx, session, domain.CartLine{
		ProductID: 7,
		Name:      "Guarana",
		UnitPrice: 10,
		Quantity:  1,
	})

	f.sut.SetCustomerData(ctx, session, validCustomer())
	f.sut.SetPaymentMethod(ctx, session, domain.PaymentPix)

	for i := 0; i < 3; i++ {
		_, err := f.sut.Advance(ctx, session)
		require.NoError(t, err)
	}
	sess := f.sut.Get(ctx, session)
	require.Equal(t, domain.StepConfirmation, sess.CurrentStep)
}

func TestSubmit_GuestTakeoutOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.reachConfirmation(t, "s1")

	identify, err := f.sut.Submit(ctx, "s1")

	require.NoError(t, err)
	assert.Equal(t, "ORD-123", identify)

	req := f.orders.lastRequest()
	require.NotNil(t, req)
	assert.Equal(t, "store-1", req.StoreID)
	assert.Equal(t, domain.OrderTypeTakeout, req.Type)
	assert.Equal(t, domain.PaymentPix, req.PaymentMethod)
	assert.Equal(t, 50.0, req.Total)
	assert.Nil(t, req.Address)
	require.Len(t, req.Items, 2)
	assert.NotEqual(t, req.Items[0].Identify, req.Items[1].Identify)

	// Cart and session are reset after a successful submission.
	cartState := f.carts.Get(ctx, "s1")
	assert.Empty(t, cartState.Items)
	sess := f.sut.Get(ctx, "s1")
	assert.Equal(t, domain.StepAuthentication, sess.CurrentStep)

	require.Eventually(t, func() bool {
		return f.notifier.sentCount() == 1
	}, 100*time.Millisecond, 10*time.Millisecond, "confirmation was not sent")
}

func TestSubmit_TableOrderIsLocal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.carts.SetContext(ctx, "s1", "store-1", "table-7")
	f.carts.AddItem(ctx, "s1", domain.CartLine{ProductID: 1, UnitPrice: 10, Quantity: 1})
	f.sut.SetCustomerData(ctx, "s1", validCustomer())
	f.sut.SetPaymentMethod(ctx, "s1", domain.PaymentCash)
	for i := 0; i < 3; i++ {
		_, err := f.sut.Advance(ctx, "s1")
		require.NoError(t, err)
	}

	_, err := f.sut.Submit(ctx, "s1")
	require.NoError(t, err)

	req := f.orders.lastRequest()
	assert.Equal(t, domain.OrderTypeLocal, req.Type)
	assert.Equal(t, "table-7", req.TableID)
}

func TestSubmit_DeliveryIncludesAddress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.carts.SetDeliveryMode(ctx, "s1", true)
	f.carts.AddItem(ctx, "s1", domain.CartLine{ProductID: 1, UnitPrice: 30, Quantity: 1})
	f.sut.SetCustomerData(ctx, "s1", validCustomer())
	f.sut.SetAddress(ctx, "s1", &domain.Address{ID: "a1", Street: "Rua A", City: "SP"})
	f.sut.SetPaymentMethod(ctx, "s1", domain.PaymentCreditCard)
	for i := 0; i < 4; i++ {
		_, err := f.sut.Advance(ctx, "s1")
		require.NoError(t, err)
	}

	_, err := f.sut.Submit(ctx, "s1")
	require.NoError(t, err)

	req := f.orders.lastRequest()
	assert.Equal(t, domain.OrderTypeDelivery, req.Type)
	require.NotNil(t, req.Address)
	assert.Equal(t, "Rua A", req.Address.Street)
}

func TestSubmit_NotAtConfirmation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.carts.AddItem(ctx, "s1", domain.CartLine{ProductID: 1, UnitPrice: 10, Quantity: 1})

	_, err := f.sut.Submit(ctx, "s1")
	require.ErrorIs(t, err, ErrNotAtConfirmation)
	assert.Nil(t, f.orders.lastRequest())
}

func TestSubmit_EmptyCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.reachConfirmation(t, "s1")

	f.carts.Clear(ctx, "s1")

	_, err := f.sut.Submit(ctx, "s1")
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestSubmit_OrderServiceFailurePreservesState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.reachConfirmation(t, "s1")
	f.orders.err = fmt.Errorf("service unavailable")

	_, err := f.sut.Submit(ctx, "s1")
	require.ErrorContains(t, err, "could not create order")

	// Cart and checkout survive so the user can retry.
	cartState := f.carts.Get(ctx, "s1")
	assert.Len(t, cartState.Items, 2)
	sess := f.sut.Get(ctx, "s1")
	assert.Equal(t, domain.StepConfirmation, sess.CurrentStep)
	assert.Equal(t, 0, f.notifier.sentCount())

	// And a retry succeeds once the service recovers.
	f.orders.err = nil
	identify, err := f.sut.Submit(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "ORD-123", identify)
}

func TestSubmit_AutoSavesUnsavedDeliveryAddress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.customers.customerID = "cust-9"

	f.carts.SetDeliveryMode(ctx, "s1", true)
	f.carts.AddItem(ctx, "s1", domain.CartLine{ProductID: 1, UnitPrice: 30, Quantity: 1})
	f.sut.SetCustomerData(ctx, "s1", validCustomer())
	// No ID: the address was typed in, not picked from the saved book.
	f.sut.SetAddress(ctx, "s1", &domain.Address{Street: "Rua Nova", City: "SP"})
	f.sut.SetPaymentMethod(ctx, "s1", domain.PaymentPix)
	for i := 0; i < 4; i++ {
		_, err := f.sut.Advance(ctx, "s1")
		require.NoError(t, err)
	}

	_, err := f.sut.Submit(ctx, "s1")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return f.addresses.savedCount() == 1
	}, 100*time.Millisecond, 10*time.Millisecond, "address was not auto-saved")
}

func TestSubmit_SavedAddressNotDuplicated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.customers.customerID = "cust-9"

	f.carts.SetDeliveryMode(ctx, "s1", true)
	f.carts.AddItem(ctx, "s1", domain.CartLine{ProductID: 1, UnitPrice: 30, Quantity: 1})
	f.sut.SetCustomerData(ctx, "s1", validCustomer())
	f.sut.SetAddress(ctx, "s1", &domain.Address{ID: "a1", Street: "Rua A", City: "SP"})
	f.sut.SetPaymentMethod(ctx, "s1", domain.PaymentPix)
	for i := 0; i < 4; i++ {
		_, err := f.sut.Advance(ctx, "s1")
		require.NoError(t, err)
	}

	_, err := f.sut.Submit(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, f.addresses.savedCount())
}

func TestSubmit_NotifierFailureDoesNotFailOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.reachConfirmation(t, "s1")
	f.notifier.err = fmt.Errorf("kafka down")

	identify, err := f.sut.Submit(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "ORD-123", identify)
}
