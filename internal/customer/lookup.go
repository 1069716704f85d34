package customer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/valter-tonon/digimenu/internal/domain"
	"github.com/valter-tonon/digimenu/internal/storage"
	"golang.org/x/sync/singleflight"
)

var ErrCustomerNotFound = errors.New("customer not found")

// phoneCacheTTL bounds the phone -> customer id cache entries.
const phoneCacheTTL = time.Hour

// Lookup finds a registered customer by phone number.
// Consumers define this interface, not the MongoDB implementation.
type Lookup interface {
	FindByPhone(ctx context.Context, phone, tenantID string) (*domain.Customer, error)
}

// Resolver resolves phone numbers to customer ids, caching hits in session
// storage and collapsing concurrent lookups for the same phone.
type Resolver struct {
	lookup   Lookup
	storage  storage.Store
	tenantID string
	sfg      singleflight.Group // Prevents duplicate lookups for same phone
}

func NewResolver(lookup Lookup, st storage.Store, tenantID string) *Resolver {
	return &Resolver{
		lookup:   lookup,
		storage:  st,
		tenantID: tenantID,
	}
}

func phoneKey(digits string) string {
	return fmt.Sprintf("customer:phone:%s", digits)
}

// Resolve returns the customer id for the phone, or empty when the phone is
// not registered (guest). Cache failures fall through to the lookup service.
func (r *Resolver) Resolve(ctx context.Context, phone string) (string, error) {
	digits := digitsOnly(phone)
	if digits == "" {
		return "", nil
	}

	if data, err := r.storage.Get(ctx, phoneKey(digits)); err == nil {
		return string(data), nil
	}

	v, err, _ := r.sfg.Do(digits, func() (interface{}, error) {
		record, err := r.lookup.FindByPhone(ctx, digits, r.tenantID)
		if errors.Is(err, ErrCustomerNotFound) {
			return "", nil
		}
		if err != nil {
			return nil, err
		}

		// cache best-effort
		go func() {
			if e2 := r.storage.Set(context.Background(), phoneKey(digits), []byte(record.ID), phoneCacheTTL); e2 != nil {
				log.Printf("customer resolver: cache write failed: %v", e2)
			}
		}()

		return record.ID, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
