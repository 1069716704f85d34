package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/valter-tonon/digimenu/internal/notification"
)

// Consumer ingests order confirmation events into the tracking store.
type Consumer struct {
	repo   OrderRepository
	reader *kafka.Reader
}

func NewConsumer(repo OrderRepository, brokers ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    notification.Topic,
		GroupID:  "tracking-service",
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{repo, reader}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.processMessage(ctx)
	}
}

func (c *Consumer) Close() {
	err := c.reader.Close()
	if err != nil {
		fmt.Printf("error closing kafka reader: %v\n", err)
	}
}

func (c *Consumer) processMessage(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		fmt.Printf("error reading message: %v\n", err)
		return
	}

	var event notification.OrderConfirmation
	if err := json.Unmarshal(m.Value, &event); err != nil {
		fmt.Printf("error parsing message: %v\n", err)
		return
	}

	if err := c.storeEvent(ctx, event); err != nil {
		fmt.Printf("failed to track order %s: %v\n", event.OrderID, err)
	}
}

// storeEvent records the confirmed order. Duplicates (redelivered events)
// are skipped, not errors.
func (c *Consumer) storeEvent(ctx context.Context, event notification.OrderConfirmation) error {
	if event.OrderID == "" {
		return errors.New("event has no order_id")
	}

	order := &TrackedOrder{
		ID:            uuid.New(),
		Identify:      event.OrderID,
		StoreID:       event.StoreID,
		TableID:       event.TableID,
		CustomerName:  event.CustomerName,
		Phone:         event.Phone,
		Type:          event.Type,
		PaymentMethod: event.PaymentMethod,
		Status:        OrderStatusReceived,
		Items:         event.Items,
		Total:         event.Total,
	}

	if err := c.repo.CreateOrder(ctx, order); err != nil {
		if errors.Is(err, ErrDuplicateOrder) {
			fmt.Printf("order %s already tracked, skipping\n", event.OrderID)
			return nil
		}
		return err
	}
	return nil
}
