package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DefaultCartTTL is how long a cart stays valid without activity.
const DefaultCartTTL = 24 * time.Hour

type Additional struct {
	ID       int64   `json:"id" bson:"id"`
	Name     string  `json:"name" bson:"name"`
	Price    float64 `json:"price" bson:"price"`
	Quantity int     `json:"quantity" bson:"quantity"`
}

type CartLine struct {
	ProductID   int64        `json:"product_id" bson:"product_id"`
	Identify    string       `json:"identify" bson:"identify"`
	Name        string       `json:"name" bson:"name"`
	UnitPrice   float64      `json:"unit_price" bson:"unit_price"`
	Quantity    int          `json:"quantity" bson:"quantity"`
	Additionals []Additional `json:"additionals,omitempty" bson:"additionals,omitempty"`
	Notes       string       `json:"notes,omitempty" bson:"notes,omitempty"`
}

// LineIdentity builds the stable key that distinguishes otherwise-identical
// lines: same product with different additionals or notes gets a different
// key and is never consolidated. Additionals are sorted by id so the key does
// not depend on selection order.
func LineIdentity(productID int64, additionals []Additional, notes string) string {
	extras := make([]string, 0, len(additionals))
	for _, a := range additionals {
		extras = append(extras, fmt.Sprintf("%d:%d", a.ID, a.Quantity))
	}
	sort.Strings(extras)

	var b strings.Builder
	fmt.Fprintf(&b, "%d", productID)
	if len(extras) > 0 {
		b.WriteString("|")
		b.WriteString(strings.Join(extras, ","))
	}
	if notes != "" {
		b.WriteString("|")
		b.WriteString(notes)
	}
	return b.String()
}

// Subtotal is (unit price + additionals) times line quantity.
func (l CartLine) Subtotal() float64 {
	extras := 0.0
	for _, a := range l.Additionals {
		extras += a.Price * float64(a.Quantity)
	}
	return (l.UnitPrice + extras) * float64(l.Quantity)
}

type Cart struct {
	Items        []CartLine    `json:"items"`
	StoreID      string        `json:"store_id,omitempty"`
	TableID      string        `json:"table_id,omitempty"`
	DeliveryMode bool          `json:"delivery_mode"`
	TTL          time.Duration `json:"ttl"`
	LastUpdated  time.Time     `json:"last_updated"`
	ExpiresAt    time.Time     `json:"expires_at"`
}

func NewCart(now time.Time) Cart {
	return Cart{
		TTL:         DefaultCartTTL,
		LastUpdated: now,
		ExpiresAt:   now.Add(DefaultCartTTL),
	}
}

func (c Cart) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

func (c Cart) TotalItems() int {
	total := 0
	for _, l := range c.Items {
		total += l.Quantity
	}
	return total
}

func (c Cart) TotalPrice() float64 {
	total := 0.0
	for _, l := range c.Items {
		total += l.Subtotal()
	}
	return total
}

func (c Cart) FindLine(identify string) (CartLine, bool) {
	for _, l := range c.Items {
		if l.Identify == identify {
			return l, true
		}
	}
	return CartLine{}, false
}

// AddLine merges the new line into an existing one with the same identify by
// summing quantities, or appends it. Returns the updated cart with a
// refreshed expiry window.
func (c Cart) AddLine(line CartLine, now time.Time) Cart {
	if line.Identify == "" {
		line.Identify = LineIdentity(line.ProductID, line.Additionals, line.Notes)
	}

	merged := false
	items := make([]CartLine, len(c.Items))
	copy(items, c.Items)
	for i := range items {
		if items[i].Identify == line.Identify {
			items[i].Quantity += line.Quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, line)
	}

	c.Items = items
	return c.touch(now)
}

// RemoveLine drops the matching line. Removing an absent identify is a no-op,
// not an error.
func (c Cart) RemoveLine(identify string, now time.Time) Cart {
	items := make([]CartLine, 0, len(c.Items))
	for _, l := range c.Items {
		if l.Identify != identify {
			items = append(items, l)
		}
	}
	c.Items = items
	return c.touch(now)
}

// SetQuantity replaces the line quantity; zero or negative removes the line.
func (c Cart) SetQuantity(identify string, quantity int, now time.Time) Cart {
	if quantity <= 0 {
		return c.RemoveLine(identify, now)
	}
	items := make([]CartLine, len(c.Items))
	copy(items, c.Items)
	for i := range items {
		if items[i].Identify == identify {
			items[i].Quantity = quantity
			break
		}
	}
	c.Items = items
	return c.touch(now)
}

// WithTTL overrides the expiry window. A negative duration produces an
// already-expired cart, which is how callers force expiry.
func (c Cart) WithTTL(ttl time.Duration, now time.Time) Cart {
	c.TTL = ttl
	c.LastUpdated = now
	c.ExpiresAt = now.Add(ttl)
	return c
}

// Cleared keeps the store/table/delivery context but drops every item and
// resets the timestamps to a fresh default window.
func (c Cart) Cleared(now time.Time) Cart {
	c.Items = nil
	c.TTL = DefaultCartTTL
	c.LastUpdated = now
	c.ExpiresAt = now.Add(DefaultCartTTL)
	return c
}

func (c Cart) touch(now time.Time) Cart {
	if c.TTL == 0 {
		c.TTL = DefaultCartTTL
	}
	c.LastUpdated = now
	c.ExpiresAt = now.Add(c.TTL)
	return c
}
