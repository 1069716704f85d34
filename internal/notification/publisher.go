package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/valter-tonon/digimenu/internal/domain"
)

const Topic = "order-confirmations"

// OrderConfirmation is the event published after the order service has
// acknowledged an order. The tracking consumer and the messaging workers
// (WhatsApp, e-mail) feed from the same topic.
type OrderConfirmation struct {
	OrderID       string            `json:"order_id"`
	StoreID       string            `json:"store_id"`
	TableID       string            `json:"table_id,omitempty"`
	MerchantName  string            `json:"merchant_name"`
	CustomerName  string            `json:"customer_name"`
	Phone         string            `json:"phone"`
	Type          domain.OrderType  `json:"type"`
	PaymentMethod string            `json:"payment_method"`
	Items         []domain.CartLine `json:"items"`
	Total         float64           `json:"total"`
	ConfirmedAt   time.Time         `json:"confirmed_at"`
}

type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers ...string) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w}
}

// SendOrderConfirmation publishes the confirmation event. Callers treat
// failures as non-critical, a lost notification never fails the order.
func (p *Publisher) SendOrderConfirmation(ctx context.Context, c OrderConfirmation) error {
	if c.ConfirmedAt.IsZero() {
		c.ConfirmedAt = time.Now()
	}
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal order confirmation: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(c.OrderID),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish order confirmation: %w", err)
	}
	return nil
}

func (p *Publisher) Close() {
	if err := p.writer.Close(); err != nil {
		fmt.Printf("error closing kafka writer: %v\n", err)
	}
}
