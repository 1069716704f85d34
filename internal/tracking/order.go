package tracking

import (
	"time"

	"github.com/google/uuid"
	"github.com/valter-tonon/digimenu/internal/domain"
)

type OrderStatus string

const (
	OrderStatusReceived  OrderStatus = "RECEIVED"
	OrderStatusPreparing OrderStatus = "PREPARING"
	OrderStatusReady     OrderStatus = "READY"
	OrderStatusDelivered OrderStatus = "DELIVERED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusReceived, OrderStatusPreparing, OrderStatusReady, OrderStatusDelivered:
		return true
	}
	return false
}

// TrackedOrder is the record kept for the order-tracking surface, built from
// confirmation events.
type TrackedOrder struct {
	ID            uuid.UUID         `json:"id"`
	Identify      string            `json:"identify"`
	StoreID       string            `json:"store_id"`
	TableID       string            `json:"table_id,omitempty"`
	CustomerName  string            `json:"customer_name"`
	Phone         string            `json:"phone"`
	Type          domain.OrderType  `json:"type"`
	PaymentMethod string            `json:"payment_method"`
	Status        OrderStatus       `json:"status"`
	Items         []domain.CartLine `json:"items"`
	Total         float64           `json:"total"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}
