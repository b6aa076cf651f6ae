package basket

import (
	"context"
	"errors"

	"github.com/mkhalil/go_storefront/internal/domain"
)

// Store holds checkout-in-progress baskets. Baskets are ephemeral: they live
// until explicitly deleted or until the TTL expires, and every write
// refreshes the TTL.
type Store interface {
	Get(ctx context.Context, basketID string) (*domain.Basket, error)
	Set(ctx context.Context, basket *domain.Basket) error
	Delete(ctx context.Context, basketID string) error
}

var ErrBasketNotFound = errors.New("basket not found")
