package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkhalil/go_storefront/internal/basket"
	"github.com/mkhalil/go_storefront/internal/domain"
	"github.com/mkhalil/go_storefront/internal/repository"
)

// PriceReconciler forces a basket's prices back to what the catalog says.
// Client-supplied prices are never trusted; whatever the basket carries is
// overwritten before any amount reaches the payment gateway.
type PriceReconciler struct {
	baskets basket.Store
	repos   repository.Factory
}

func NewPriceReconciler(baskets basket.Store, repos repository.Factory) *PriceReconciler {
	return &PriceReconciler{baskets: baskets, repos: repos}
}

// Reconcile mutates the basket in place and persists it back to the store.
// An unknown product or delivery method is a NotFound, never skipped.
func (r *PriceReconciler) Reconcile(ctx context.Context, b *domain.Basket) error {
	uow := r.repos.NewUnitOfWork(actorPayments)

	if b.DeliveryMethodID != nil {
		dm, err := uow.DeliveryMethods().Get(ctx, *b.DeliveryMethodID)
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Entity: "deliveryMethod", Key: *b.DeliveryMethodID}
		}
		if err != nil {
			return fmt.Errorf("load delivery method: %w", err)
		}
		b.ShippingPrice = dm.Cost
	}

	products := uow.Products()
	for i := range b.Items {
		item := &b.Items[i]
		product, err := products.Get(ctx, item.ProductID)
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Entity: "product", Key: item.ProductID}
		}
		if err != nil {
			return fmt.Errorf("load product: %w", err)
		}

		if item.Price != product.Price {
			item.Price = product.Price
		}
	}

	if err := r.baskets.Set(ctx, b); err != nil {
		return fmt.Errorf("persist reconciled basket: %w", err)
	}
	return nil
}
