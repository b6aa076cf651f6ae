package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mkhalil/go_storefront/internal/domain"
	"github.com/segmentio/kafka-go"
)

// OrderEvent is the payload published on every order lifecycle change:
// creation and each webhook-driven status transition.
type OrderEvent struct {
	OrderID         string    `json:"order_id"`
	BuyerEmail      string    `json:"buyer_email"`
	PaymentIntentID string    `json:"payment_intent_id"`
	Status          string    `json:"status"`
	Subtotal        float64   `json:"subtotal"`
	OccurredAt      time.Time `json:"occurred_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type Publisher struct {
	writer messageWriter
}

func NewPublisher(brokers ...string) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "order-events",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w}
}

func (p *Publisher) PublishOrderStatus(ctx context.Context, order *domain.Order) error {
	event := OrderEvent{
		OrderID:         order.ID.String(),
		BuyerEmail:      order.BuyerEmail,
		PaymentIntentID: order.PaymentIntentID,
		Status:          order.Status.String(),
		Subtotal:        order.Subtotal,
		OccurredAt:      time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	// Keyed by intent id so all events for one checkout land in one partition.
	msg := kafka.Message{
		Key:   []byte(order.PaymentIntentID),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish order event: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	if w, ok := p.writer.(*kafka.Writer); ok {
		return w.Close()
	}
	return nil
}
