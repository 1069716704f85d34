package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/valter-tonon/digimenu/internal/cart"
	"github.com/valter-tonon/digimenu/internal/domain"
	"github.com/valter-tonon/digimenu/internal/notification"
	"github.com/valter-tonon/digimenu/internal/storage"
)

// sessionTTL bounds how long an abandoned checkout session lingers.
const sessionTTL = 24 * time.Hour

// OrderClient creates the order at the external order service and returns its
// stable identifier. Consumers define this interface, not the HTTP client.
type OrderClient interface {
	CreateOrder(ctx context.Context, req *domain.OrderRequest) (string, error)
}

// Notifier sends the order confirmation. Failures are non-critical.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, c notification.OrderConfirmation) error
}

// AddressSaver persists an address for a recognized customer, used for the
// best-effort auto-save after a delivery order.
type AddressSaver interface {
	CreateAddress(ctx context.Context, customerID string, addr domain.Address) (domain.Address, error)
}

// CustomerResolver resolves a phone number to a customer id, empty when the
// phone is not registered.
type CustomerResolver interface {
	Resolve(ctx context.Context, phone string) (string, error)
}

// Service sequences the checkout steps, holds the collected data per session
// and produces the order submission.
type Service struct {
	storage      storage.Store
	carts        *cart.Store
	orders       OrderClient
	notifier     Notifier
	addresses    AddressSaver
	customers    CustomerResolver
	merchantName string
	now          func() time.Time
}

func NewService(
	st storage.Store,
	carts *cart.Store,
	orders OrderClient,
	notifier Notifier,
	addresses AddressSaver,
	customers CustomerResolver,
	merchantName string,
) *Service {
	return &Service{
		storage:      st,
		carts:        carts,
		orders:       orders,
		notifier:     notifier,
		addresses:    addresses,
		customers:    customers,
		merchantName: merchantName,
		now:          time.Now,
	}
}

func checkoutKey(session string) string {
	return fmt.Sprintf("checkout:%s", session)
}

// Get loads the checkout session, creating one at the authentication step on
// first access. The delivery flag and table follow the cart context, and a
// session parked on the address step falls back to payment when the order
// stops being a delivery.
func (s *Service) Get(ctx context.Context, session string) domain.CheckoutSession {
	cartState := s.carts.Get(ctx, session)

	sess, found := s.load(ctx, session)
	if !found {
		return domain.NewCheckoutSession(cartState.DeliveryMode, cartState.TableID)
	}

	sess.IsDelivery = cartState.DeliveryMode
	sess.TableID = cartState.TableID
	if sess.CurrentStep == domain.StepAddress && !sess.IsDelivery {
		sess.CurrentStep = domain.StepPayment
	}
	return sess
}

func (s *Service) SetCustomerData(ctx context.Context, session string, data domain.CustomerData) domain.CheckoutSession {
	sess := s.Get(ctx, session)
	sess.CustomerData = data
	s.persist(ctx, session, sess)
	return sess
}

func (s *Service) SetAddress(ctx context.Context, session string, addr *domain.Address) domain.CheckoutSession {
	sess := s.Get(ctx, session)
	sess.SelectedAddress = addr
	s.persist(ctx, session, sess)
	return sess
}

func (s *Service) SetPaymentMethod(ctx context.Context, session string, method domain.PaymentMethod) domain.CheckoutSession {
	sess := s.Get(ctx, session)
	sess.PaymentMethod = method
	s.persist(ctx, session, sess)
	return sess
}

func (s *Service) SetOrderNotes(ctx context.Context, session, notes string) domain.CheckoutSession {
	sess := s.Get(ctx, session)
	sess.OrderNotes = notes
	s.persist(ctx, session, sess)
	return sess
}

// Advance moves to the next applicable step, gated on the current step's
// required data. A validation failure leaves the session untouched.
func (s *Service) Advance(ctx context.Context, session string) (domain.CheckoutSession, error) {
	sess := s.Get(ctx, session)
	if err := validateStep(sess, sess.CurrentStep); err != nil {
		return sess, err
	}

	sess = sess.MarkComplete(sess.CurrentStep)
	sess.CurrentStep = sess.NextStep()
	s.persist(ctx, session, sess)
	return sess, nil
}

// GoBack moves to the previous step unconditionally, previously entered data
// is kept.
func (s *Service) GoBack(ctx context.Context, session string) domain.CheckoutSession {
	sess := s.Get(ctx, session)
	sess.CurrentStep = sess.PrevStep()
	s.persist(ctx, session, sess)
	return sess
}

// GoToStep jumps directly to an already-completed step or the current one.
// Skipping ahead is not allowed.
func (s *Service) GoToStep(ctx context.Context, session string, step domain.Step) (domain.CheckoutSession, error) {
	sess := s.Get(ctx, session)
	if step == sess.CurrentStep {
		return sess, nil
	}
	if !sess.HasCompleted(step) {
		return sess, fmt.Errorf("%w: %s", ErrStepNotReachable, step)
	}

	sess.CurrentStep = step
	s.persist(ctx, session, sess)
	return sess, nil
}

// MarkStepComplete records the step as done. Idempotent.
func (s *Service) MarkStepComplete(ctx context.Context, session string, step domain.Step) domain.CheckoutSession {
	sess := s.Get(ctx, session).MarkComplete(step)
	s.persist(ctx, session, sess)
	return sess
}

// Abandon drops the checkout session, keeping the cart.
func (s *Service) Abandon(ctx context.Context, session string) {
	if err := s.storage.Delete(ctx, checkoutKey(session)); err != nil {
		log.Printf("checkout: abandon delete failed: %v", err)
	}
}

func (s *Service) load(ctx context.Context, session string) (domain.CheckoutSession, bool) {
	data, err := s.storage.Get(ctx, checkoutKey(session))
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("checkout: read failed, treating as new session: %v", err)
		}
		return domain.CheckoutSession{}, false
	}

	var sess domain.CheckoutSession
	if err := json.Unmarshal(data, &sess); err != nil {
		log.Printf("checkout: corrupt session, treating as new: %v", err)
		return domain.CheckoutSession{}, false
	}
	return sess, true
}

func (s *Service) persist(ctx context.Context, session string, sess domain.CheckoutSession) {
	data, err := json.Marshal(sess)
	if err != nil {
		log.Printf("checkout: marshal failed: %v", err)
		return
	}
	if err := s.storage.Set(ctx, checkoutKey(session), data, sessionTTL); err != nil {
		log.Printf("checkout: write failed: %v", err)
	}
}
