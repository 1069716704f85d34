package domain

type OrderType string

const (
	OrderTypeDelivery OrderType = "delivery"
	OrderTypeTakeout  OrderType = "takeout"
	OrderTypeLocal    OrderType = "local"
)

// OrderRequest is the payload sent to the order service at submit time.
type OrderRequest struct {
	StoreID       string        `json:"store_id"`
	TableID       string        `json:"table_id,omitempty"`
	Type          OrderType     `json:"type"`
	Customer      CustomerData  `json:"customer"`
	Items         []CartLine    `json:"items"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Notes         string        `json:"notes,omitempty"`
	Address       *Address      `json:"address,omitempty"`
	Total         float64       `json:"total"`
}
