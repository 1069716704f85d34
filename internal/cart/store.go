package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/valter-tonon/digimenu/internal/domain"
	"github.com/valter-tonon/digimenu/internal/storage"
)

// Store maintains the authoritative cart for each ordering session. Every
// mutation persists the new state; storage failures are swallowed so cart
// operations never fail due to storage unavailability.
type Store struct {
	storage storage.Store
	now     func() time.Time
}

func NewStore(st storage.Store) *Store {
	return &Store{
		storage: st,
		now:     time.Now,
	}
}

// envelope is the persisted shape. ExpiresAt is duplicated outside the cart
// so hydration can discard stale payloads without decoding the full state.
type envelope struct {
	Cart      domain.Cart `json:"cart"`
	ExpiresAt time.Time   `json:"expires_at"`
}

func cartKey(session string) string {
	return fmt.Sprintf("cart:%s", session)
}

// Get hydrates the session cart. An expired stored envelope is removed from
// storage and a fresh cart returned, expired carts never silently reappear.
func (s *Store) Get(ctx context.Context, session string) domain.Cart {
	cart, found := s.load(ctx, session)
	if !found {
		return domain.NewCart(s.now())
	}
	if cart.IsExpired(s.now()) {
		if err := s.storage.Delete(ctx, cartKey(session)); err != nil {
			log.Printf("cart store: delete expired cart failed: %v", err)
		}
		return domain.NewCart(s.now())
	}
	return cart
}

// AddItem consolidates by identify and refreshes the expiry window.
func (s *Store) AddItem(ctx context.Context, session string, line domain.CartLine) domain.Cart {
	cart := s.Get(ctx, session).AddLine(line, s.now())
	s.persist(ctx, session, cart)
	return cart
}

func (s *Store) RemoveItem(ctx context.Context, session, identify string) domain.Cart {
	cart := s.Get(ctx, session).RemoveLine(identify, s.now())
	s.persist(ctx, session, cart)
	return cart
}

func (s *Store) UpdateQuantity(ctx context.Context, session, identify string, quantity int) domain.Cart {
	cart := s.Get(ctx, session).SetQuantity(identify, quantity, s.now())
	s.persist(ctx, session, cart)
	return cart
}

// SetTTL overrides the expiry window. Negative hours yield an already-expired
// cart, which is how callers force expiry.
func (s *Store) SetTTL(ctx context.Context, session string, hours int) domain.Cart {
	cart, found := s.load(ctx, session)
	if !found {
		cart = domain.NewCart(s.now())
	}
	cart = cart.WithTTL(time.Duration(hours)*time.Hour, s.now())
	s.persist(ctx, session, cart)
	return cart
}

// IsExpired evaluates the expiry predicate against the stored state without
// discarding it.
func (s *Store) IsExpired(ctx context.Context, session string) bool {
	cart, found := s.load(ctx, session)
	if !found {
		return false
	}
	return cart.IsExpired(s.now())
}

// Sync refreshes the activity timestamp. When the cart has expired its items
// are cleared as a side effect, keeping the store/table context.
func (s *Store) Sync(ctx context.Context, session string) domain.Cart {
	cart, found := s.load(ctx, session)
	if !found {
		cart = domain.NewCart(s.now())
	} else if cart.IsExpired(s.now()) {
		cart = cart.Cleared(s.now())
	} else {
		cart = cart.WithTTL(cart.TTL, s.now())
	}
	s.persist(ctx, session, cart)
	return cart
}

// SetContext records the active store and table. Independent of item state.
func (s *Store) SetContext(ctx context.Context, session, storeID, tableID string) domain.Cart {
	cart := s.Get(ctx, session)
	cart.StoreID = storeID
	cart.TableID = tableID
	s.persist(ctx, session, cart)
	return cart
}

func (s *Store) SetDeliveryMode(ctx context.Context, session string, delivery bool) domain.Cart {
	cart := s.Get(ctx, session)
	cart.DeliveryMode = delivery
	s.persist(ctx, session, cart)
	return cart
}

// Clear empties the items and resets the timestamps to a fresh default
// window.
func (s *Store) Clear(ctx context.Context, session string) domain.Cart {
	cart := s.Get(ctx, session).Cleared(s.now())
	s.persist(ctx, session, cart)
	return cart
}

// load reads the raw stored envelope. Storage errors are treated as "no
// stored cart".
func (s *Store) load(ctx context.Context, session string) (domain.Cart, bool) {
	data, err := s.storage.Get(ctx, cartKey(session))
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("cart store: read failed, treating as empty: %v", err)
		}
		return domain.Cart{}, false
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Printf("cart store: corrupt envelope, treating as empty: %v", err)
		return domain.Cart{}, false
	}
	return env.Cart, true
}

// persist writes the envelope best-effort. The storage TTL mirrors the cart
// expiry so abandoned carts age out of Redis on their own.
func (s *Store) persist(ctx context.Context, session string, cart domain.Cart) {
	env := envelope{Cart: cart, ExpiresAt: cart.ExpiresAt}
	data, err := json.Marshal(env)
	if err != nil {
		log.Printf("cart store: marshal failed: %v", err)
		return
	}

	ttl := time.Until(cart.ExpiresAt)
	if ttl <= 0 {
		ttl = 0
	}
	if err := s.storage.Set(ctx, cartKey(session), data, ttl); err != nil {
		log.Printf("cart store: write failed: %v", err)
	}
}
