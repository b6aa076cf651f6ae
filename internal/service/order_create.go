package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/mkhalil/go_storefront/internal/basket"
	"github.com/mkhalil/go_storefront/internal/domain"
	"github.com/mkhalil/go_storefront/internal/repository"
)

type CreateOrderRequest struct {
	BasketID         string
	DeliveryMethodID int64
	ShippingAddress  domain.Address
}

// CreateOrder turns a basket into a durable order. If an order already exists
// for the basket's payment intent (checkout was retried after a basket edit),
// the payment intent amount is re-synced first and the stale order is
// replaced; delete and insert commit in one transaction, so at most one order
// ever exists per payment intent.
func (s *OrderServiceImpl) CreateOrder(ctx context.Context, buyerEmail string, req *CreateOrderRequest) (*domain.Order, error) {
	if err := validateCreateOrder(buyerEmail, req); err != nil {
		return nil, err
	}

	b, err := s.baskets.Get(ctx, req.BasketID)
	if errors.Is(err, basket.ErrBasketNotFound) {
		return nil, &NotFoundError{Entity: "basket", Key: req.BasketID}
	}
	if err != nil {
		return nil, fmt.Errorf("load basket: %w", err)
	}

	uow := s.repos.NewUnitOfWork(buyerEmail)

	items, subtotal, err := s.resolveItems(ctx, uow, b)
	if err != nil {
		return nil, err
	}

	deliveryMethod, err := uow.DeliveryMethods().Get(ctx, req.DeliveryMethodID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Entity: "deliveryMethod", Key: req.DeliveryMethodID}
	}
	if err != nil {
		return nil, fmt.Errorf("load delivery method: %w", err)
	}

	if b.PaymentIntentID != "" {
		if err := s.replaceExistingOrder(ctx, uow, b.ID, b.PaymentIntentID); err != nil {
			return nil, err
		}
	}

	order := &domain.Order{
		ID:               uuid.New(),
		BuyerEmail:       buyerEmail,
		Items:            items,
		Subtotal:         subtotal,
		DeliveryMethodID: deliveryMethod.ID,
		DeliveryMethod:   deliveryMethod,
		ShippingAddress:  req.ShippingAddress,
		PaymentIntentID:  b.PaymentIntentID,
		Status:           domain.OrderStatusCreated,
	}
	uow.Orders().Add(order)

	affected, err := uow.Commit(ctx)
	if err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}
	if affected == 0 {
		return nil, &BadRequestError{Message: "an error occurred during order creation"}
	}

	if pubErr := s.events.PublishOrderStatus(ctx, order); pubErr != nil {
		log.Printf("failed to publish order created event: %v", pubErr)
	}

	return order, nil
}

// resolveItems snapshots basket items against the catalog. An item whose
// product no longer resolves fails the whole order; the payment-intent path
// fails on the same condition, and the two must stay consistent or the order
// total drifts from the amount already synced to the gateway.
func (s *OrderServiceImpl) resolveItems(
	ctx context.Context,
	uow repository.UnitOfWork,
	b *domain.Basket) ([]domain.OrderItem, float64, error) {

	products := uow.Products()
	items := make([]domain.OrderItem, 0, len(b.Items))
	var subtotal float64

	for _, basketItem := range b.Items {
		product, err := products.Get(ctx, basketItem.ProductID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, 0, &NotFoundError{Entity: "product", Key: basketItem.ProductID}
		}
		if err != nil {
			return nil, 0, fmt.Errorf("load product: %w", err)
		}

		items = append(items, domain.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			PictureURL:  product.PictureURL,
			Price:       product.Price,
			Quantity:    basketItem.Quantity,
		})
		subtotal += product.Price * float64(basketItem.Quantity)
	}

	return items, subtotal, nil
}

// replaceExistingOrder buffers the removal of any order already tied to the
// payment intent. The intent amount is re-synced before anything is deleted:
// if the gateway call fails the replacement aborts and the stale order
// survives untouched.
func (s *OrderServiceImpl) replaceExistingOrder(
	ctx context.Context,
	uow repository.UnitOfWork,
	basketID, paymentIntentID string) error {

	existing, err := uow.Orders().GetWithSpec(ctx, repository.OrderByPaymentIntent(paymentIntentID))
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("look up order by payment intent: %w", err)
	}

	if _, err := s.payments.CreateOrUpdateIntent(ctx, basketID); err != nil {
		return fmt.Errorf("re-sync payment intent before replacing order: %w", err)
	}

	// Items must go before their owning order row.
	orderItems := uow.OrderItems()
	for i := range existing.Items {
		orderItems.Delete(&existing.Items[i])
	}
	uow.Orders().Delete(existing)

	log.Printf("replacing order %v for payment intent %v", existing.ID, paymentIntentID)
	return nil
}

func validateCreateOrder(buyerEmail string, req *CreateOrderRequest) error {
	var messages []string
	if buyerEmail == "" {
		messages = append(messages, "buyer email is required")
	}
	if req.BasketID == "" {
		messages = append(messages, "basket id is required")
	}
	if req.DeliveryMethodID == 0 {
		messages = append(messages, "delivery method id is required")
	}
	if len(messages) > 0 {
		return &ValidationError{Messages: messages}
	}
	return nil
}
