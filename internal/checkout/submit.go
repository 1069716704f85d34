package checkout

import (
	"context"
	"fmt"
	"log"

	"github.com/valter-tonon/digimenu/internal/domain"
	"github.com/valter-tonon/digimenu/internal/notification"
)

// Submit creates the order from the confirmation step. On success the cart
// and the checkout session are cleared; on failure both are left untouched so
// the user can retry. The confirmation notification and the address auto-save
// are best-effort, the order stands once the order service acknowledges it.
func (s *Service) Submit(ctx context.Context, session string) (string, error) {
	sess := s.Get(ctx, session)
	if sess.CurrentStep != domain.StepConfirmation {
		return "", ErrNotAtConfirmation
	}
	for _, step := range sess.Steps() {
		if step == domain.StepConfirmation {
			break
		}
		if !sess.HasCompleted(step) {
			return "", fmt.Errorf("%w: %s", ErrStepIncomplete, step)
		}
	}

	cartState := s.carts.Get(ctx, session)
	if len(cartState.Items) == 0 {
		return "", ErrEmptyCart
	}

	req := &domain.OrderRequest{
		StoreID:       cartState.StoreID,
		TableID:       cartState.TableID,
		Type:          sess.OrderType(),
		Customer:      sess.CustomerData,
		Items:         cartState.Items,
		PaymentMethod: sess.PaymentMethod,
		Notes:         sess.OrderNotes,
		Total:         cartState.TotalPrice(),
	}
	if sess.OrderType() == domain.OrderTypeDelivery {
		req.Address = sess.SelectedAddress
	}

	identify, err := s.orders.CreateOrder(ctx, req)
	if err != nil {
		return "", fmt.Errorf("could not create order: %w", err)
	}

	s.carts.Clear(ctx, session)
	s.Abandon(ctx, session)

	s.saveAddressForCustomer(ctx, sess)
	s.notifyConfirmation(ctx, identify, sess, req)

	return identify, nil
}

// saveAddressForCustomer persists an unsaved delivery address when the phone
// resolves to a registered customer. Never fails the order.
func (s *Service) saveAddressForCustomer(ctx context.Context, sess domain.CheckoutSession) {
	if s.addresses == nil || s.customers == nil {
		return
	}
	addr := sess.SelectedAddress
	if sess.OrderType() != domain.OrderTypeDelivery || addr == nil || addr.ID != "" {
		return
	}

	customerID, err := s.customers.Resolve(ctx, sess.CustomerData.Phone)
	if err != nil {
		log.Printf("checkout: customer lookup for address auto-save failed: %v", err)
		return
	}
	if customerID == "" {
		return
	}
	if _, err := s.addresses.CreateAddress(ctx, customerID, *addr); err != nil {
		log.Printf("checkout: address auto-save failed: %v", err)
	}
}

func (s *Service) notifyConfirmation(ctx context.Context, identify string, sess domain.CheckoutSession, req *domain.OrderRequest) {
	if s.notifier == nil {
		return
	}
	confirmation := notification.OrderConfirmation{
		OrderID:       identify,
		StoreID:       req.StoreID,
		TableID:       req.TableID,
		MerchantName:  s.merchantName,
		CustomerName:  sess.CustomerData.Name,
		Phone:         sess.CustomerData.Phone,
		Type:          req.Type,
		PaymentMethod: string(req.PaymentMethod),
		Items:         req.Items,
		Total:         req.Total,
		ConfirmedAt:   s.now(),
	}
	if err := s.notifier.SendOrderConfirmation(ctx, confirmation); err != nil {
		log.Printf("checkout: order confirmation notification failed: %v", err)
	}
}
