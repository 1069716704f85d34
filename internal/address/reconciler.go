package address

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/valter-tonon/digimenu/internal/domain"
	"github.com/valter-tonon/digimenu/internal/storage"
)

// cacheTTL bounds the session cache of customer address lists.
const cacheTTL = 30 * time.Minute

// Book is the reconciled view handed to the checkout flow: one list and one
// selection regardless of whether the actor is a guest or a customer.
type Book struct {
	Addresses  []domain.Address `json:"addresses"`
	SelectedID string           `json:"selected_id,omitempty"`
}

func (b Book) Selected() (domain.Address, bool) {
	for _, a := range b.Addresses {
		if a.ID == b.SelectedID {
			return a, true
		}
	}
	return domain.Address{}, false
}

// Reconciler merges the guest (session-scoped) and customer (server-scoped)
// address books. Guest addresses live only in session storage with synthetic
// ids and are never sent to the address service.
type Reconciler struct {
	storage storage.Store
	svc     Service
}

func NewReconciler(st storage.Store, svc Service) *Reconciler {
	return &Reconciler{storage: st, svc: svc}
}

func guestKey(session string) string {
	return fmt.Sprintf("addresses:guest:%s", session)
}

func selectedKey(session string) string {
	return fmt.Sprintf("addresses:selected:%s", session)
}

func cacheKey(session string) string {
	return fmt.Sprintf("addresses:customer:%s", session)
}

// Load returns the address book for the session. An empty customerID means a
// guest actor. When nothing is selected yet the entry flagged default is
// selected, else the first one.
func (r *Reconciler) Load(ctx context.Context, session, customerID string) (Book, error) {
	var (
		addresses []domain.Address
		err       error
	)
	if customerID == "" {
		addresses = r.guestList(ctx, session)
	} else {
		addresses, err = r.customerList(ctx, session, customerID)
		if err != nil {
			return Book{}, err
		}
	}

	book := Book{Addresses: addresses, SelectedID: r.storedSelection(ctx, session)}
	if _, ok := book.Selected(); !ok {
		book.SelectedID = defaultSelection(addresses)
		r.persistSelection(ctx, session, book.SelectedID)
	}
	return book, nil
}

// Select pins the selection to an address present in the book.
func (r *Reconciler) Select(ctx context.Context, session, customerID, id string) (Book, error) {
	book, err := r.Load(ctx, session, customerID)
	if err != nil {
		return Book{}, err
	}

	found := false
	for _, a := range book.Addresses {
		if a.ID == id {
			found = true
			break
		}
	}
	if !found {
		return book, ErrAddressNotFound
	}

	book.SelectedID = id
	r.persistSelection(ctx, session, id)
	return book, nil
}

// Create adds an address. Guests get a synthetic client-generated id and the
// first guest address becomes the default.
func (r *Reconciler) Create(ctx context.Context, session, customerID string, addr domain.Address) (domain.Address, error) {
	if customerID == "" {
		addr.ID = uuid.NewString()
		list := r.guestList(ctx, session)
		if len(list) == 0 {
			addr.IsDefault = true
		}
		if addr.IsDefault {
			for i := range list {
				list[i].IsDefault = false
			}
		}
		list = append(list, addr)
		r.persistGuestList(ctx, session, list)
		return addr, nil
	}

	created, err := r.svc.CreateAddress(ctx, customerID, addr)
	if err != nil {
		return domain.Address{}, err
	}
	r.invalidateCache(ctx, session)
	return created, nil
}

func (r *Reconciler) Update(ctx context.Context, session, customerID, id string, addr domain.Address) (domain.Address, error) {
	if customerID == "" {
		list := r.guestList(ctx, session)
		for i := range list {
			if list[i].ID == id {
				addr.ID = id
				addr.IsDefault = list[i].IsDefault
				list[i] = addr
				r.persistGuestList(ctx, session, list)
				return addr, nil
			}
		}
		return domain.Address{}, ErrAddressNotFound
	}

	updated, err := r.svc.UpdateAddress(ctx, id, addr)
	if err != nil {
		return domain.Address{}, err
	}
	r.invalidateCache(ctx, session)
	return updated, nil
}

// Delete removes the address. Deleting the currently selected entry
// re-applies the default-selection policy over the remaining list, the
// selection never dangles on a deleted id.
func (r *Reconciler) Delete(ctx context.Context, session, customerID, id string) (Book, error) {
	if customerID == "" {
		list := r.guestList(ctx, session)
		remaining := make([]domain.Address, 0, len(list))
		found := false
		for _, a := range list {
			if a.ID == id {
				found = true
				continue
			}
			remaining = append(remaining, a)
		}
		if !found {
			return Book{}, ErrAddressNotFound
		}
		r.persistGuestList(ctx, session, remaining)
	} else {
		if err := r.svc.DeleteAddress(ctx, id); err != nil {
			return Book{}, err
		}
		r.invalidateCache(ctx, session)
	}

	if r.storedSelection(ctx, session) == id {
		if err := r.storage.Delete(ctx, selectedKey(session)); err != nil {
			log.Printf("address book: clear selection failed: %v", err)
		}
	}
	return r.Load(ctx, session, customerID)
}

// SetDefault rewrites the guest list so exactly one entry is flagged, or
// delegates to the address service and reloads.
func (r *Reconciler) SetDefault(ctx context.Context, session, customerID, id string) (Book, error) {
	if customerID == "" {
		list := r.guestList(ctx, session)
		found := false
		for i := range list {
			list[i].IsDefault = list[i].ID == id
			if list[i].IsDefault {
				found = true
			}
		}
		if !found {
			return Book{}, ErrAddressNotFound
		}
		r.persistGuestList(ctx, session, list)
	} else {
		if err := r.svc.SetDefault(ctx, customerID, id); err != nil {
			return Book{}, err
		}
		r.invalidateCache(ctx, session)
	}
	return r.Load(ctx, session, customerID)
}

// defaultSelection picks the entry flagged default, else the first in list
// order.
func defaultSelection(addresses []domain.Address) string {
	if len(addresses) == 0 {
		return ""
	}
	for _, a := range addresses {
		if a.IsDefault {
			return a.ID
		}
	}
	return addresses[0].ID
}

func (r *Reconciler) customerList(ctx context.Context, session, customerID string) ([]domain.Address, error) {
	if data, err := r.storage.Get(ctx, cacheKey(session)); err == nil {
		var cached []domain.Address
		if e2 := json.Unmarshal(data, &cached); e2 == nil {
			return cached, nil
		} else {
			log.Printf("address book: corrupt cache, refetching: %v", e2)
		}
	}

	addresses, err := r.svc.ListAddresses(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch addresses: %w", err)
	}

	if data, err := json.Marshal(addresses); err == nil {
		if err := r.storage.Set(ctx, cacheKey(session), data, cacheTTL); err != nil {
			log.Printf("address book: cache write failed: %v", err)
		}
	}
	return addresses, nil
}

// guestList reads the session-scoped list. Storage failures mean "nothing
// stored".
func (r *Reconciler) guestList(ctx context.Context, session string) []domain.Address {
	data, err := r.storage.Get(ctx, guestKey(session))
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("address book: guest read failed, treating as empty: %v", err)
		}
		return nil
	}

	var list []domain.Address
	if err := json.Unmarshal(data, &list); err != nil {
		log.Printf("address book: corrupt guest list, treating as empty: %v", err)
		return nil
	}
	return list
}

func (r *Reconciler) persistGuestList(ctx context.Context, session string, list []domain.Address) {
	data, err := json.Marshal(list)
	if err != nil {
		log.Printf("address book: marshal guest list failed: %v", err)
		return
	}
	if err := r.storage.Set(ctx, guestKey(session), data, 0); err != nil {
		log.Printf("address book: guest write failed: %v", err)
	}
}

func (r *Reconciler) storedSelection(ctx context.Context, session string) string {
	data, err := r.storage.Get(ctx, selectedKey(session))
	if err != nil {
		return ""
	}
	return string(data)
}

func (r *Reconciler) persistSelection(ctx context.Context, session, id string) {
	if id == "" {
		if err := r.storage.Delete(ctx, selectedKey(session)); err != nil {
			log.Printf("address book: clear selection failed: %v", err)
		}
		return
	}
	if err := r.storage.Set(ctx, selectedKey(session), []byte(id), 0); err != nil {
		log.Printf("address book: selection write failed: %v", err)
	}
}

func (r *Reconciler) invalidateCache(ctx context.Context, session string) {
	if err := r.storage.Delete(ctx, cacheKey(session)); err != nil {
		log.Printf("address book: cache invalidate failed: %v", err)
	}
}
