package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mkhalil/go_storefront/internal/domain"
	"github.com/mkhalil/go_storefront/internal/repository"
)

func (s *OrderServiceImpl) ListOrdersForBuyer(ctx context.Context, buyerEmail string) ([]*domain.Order, error) {
	uow := s.repos.NewUnitOfWork(buyerEmail)

	orders, err := uow.Orders().ListWithSpec(ctx, repository.OrdersForBuyer(buyerEmail))
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// GetOrder fetches one of the buyer's own orders. The buyer filter is part of
// the query, so another buyer's order id simply comes back NotFound.
func (s *OrderServiceImpl) GetOrder(ctx context.Context, buyerEmail string, orderID uuid.UUID) (*domain.Order, error) {
	uow := s.repos.NewUnitOfWork(buyerEmail)

	order, err := uow.Orders().GetWithSpec(ctx, repository.OrderForBuyer(buyerEmail, orderID))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Entity: "order", Key: orderID}
	}
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	return order, nil
}

func (s *OrderServiceImpl) ListDeliveryMethods(ctx context.Context) ([]*domain.DeliveryMethod, error) {
	uow := s.repos.NewUnitOfWork(actorPayments)

	methods, err := uow.DeliveryMethods().ListWithSpec(ctx, repository.NewSpecification().OrderBy("cost"))
	if err != nil {
		return nil, fmt.Errorf("list delivery methods: %w", err)
	}
	return methods, nil
}
