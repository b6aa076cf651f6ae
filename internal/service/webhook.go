package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/mkhalil/go_storefront/internal/domain"
	"github.com/mkhalil/go_storefront/internal/gateway"
	"github.com/mkhalil/go_storefront/internal/repository"
)

// ProcessWebhook verifies and applies a payment-outcome notification.
// Signature failure is fatal to the request. A lookup miss surfaces NotFound;
// the HTTP boundary still acknowledges the gateway so it stops retrying an
// event that can never be satisfied.
func (s *PaymentServiceImpl) ProcessWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	event, err := gateway.ParseEvent(payload, signatureHeader, s.cfg.WebhookSecret, s.cfg.WebhookTolerance)
	if err != nil {
		return err
	}

	switch event.Type {
	case gateway.EventPaymentSucceeded:
		return s.settleOrder(ctx, event.IntentID, domain.OrderStatusPaymentReceived)
	case gateway.EventPaymentFailed:
		return s.settleOrder(ctx, event.IntentID, domain.OrderStatusPaymentFailed)
	default:
		log.Printf("ignoring webhook event type = %v", event.Type)
		return nil
	}
}

func (s *PaymentServiceImpl) settleOrder(ctx context.Context, intentID string, status domain.OrderStatus) error {
	uow := s.repos.NewUnitOfWork(actorPayments)
	orders := uow.Orders()

	order, err := orders.GetWithSpec(ctx, repository.OrderByPaymentIntent(intentID))
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Entity: "order", Key: fmt.Sprintf("paymentIntentId: %s", intentID)}
	}
	if err != nil {
		return fmt.Errorf("load order by payment intent: %w", err)
	}

	// Terminal statuses never transition again; a redelivered event is a no-op.
	if order.Status.IsTerminal() {
		log.Printf("order %v already settled with status = %v, ignoring event", order.ID, order.Status)
		return nil
	}

	order.Status = status
	orders.Update(order)

	if _, err := uow.Commit(ctx); err != nil {
		return fmt.Errorf("persist order status: %w", err)
	}

	log.Printf("order %v settled with status = %v for payment intent %v", order.ID, status, intentID)

	if pubErr := s.events.PublishOrderStatus(ctx, order); pubErr != nil {
		log.Printf("failed to publish order status event: %v", pubErr)
	}
	return nil
}
