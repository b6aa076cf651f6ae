package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/mkhalil/go_storefront/internal/basket"
	"github.com/mkhalil/go_storefront/internal/domain"
)

// CreateOrUpdateIntent syncs the gateway's payment intent with the reconciled
// basket total. Safe to call any number of times: once a basket carries an
// intent id, only amount updates are issued, never a second create.
func (s *PaymentServiceImpl) CreateOrUpdateIntent(ctx context.Context, basketID string) (*domain.Basket, error) {
	b, err := s.baskets.Get(ctx, basketID)
	if errors.Is(err, basket.ErrBasketNotFound) {
		return nil, &NotFoundError{Entity: "basket", Key: basketID}
	}
	if err != nil {
		return nil, fmt.Errorf("load basket: %w", err)
	}

	if err := s.reconciler.Reconcile(ctx, b); err != nil {
		return nil, err
	}

	amount := amountMinorUnits(b)

	if b.PaymentIntentID == "" {
		intent, createErr := s.gateway.CreateIntent(ctx, amount, s.cfg.Currency, s.cfg.PaymentMethodTypes)
		if createErr != nil {
			return nil, fmt.Errorf("create payment intent: %w", createErr)
		}
		b.PaymentIntentID = intent.ID
		b.ClientSecret = intent.ClientSecret
	} else {
		if updateErr := s.gateway.UpdateIntent(ctx, b.PaymentIntentID, amount); updateErr != nil {
			return nil, fmt.Errorf("update payment intent: %w", updateErr)
		}
	}

	if err := s.baskets.Set(ctx, b); err != nil {
		return nil, fmt.Errorf("persist basket: %w", err)
	}

	return b, nil
}

// amountMinorUnits computes the chargeable total in minor currency units.
// Each price is rounded to cents before multiplying, so the result never
// carries float drift into the gateway.
func amountMinorUnits(b *domain.Basket) int64 {
	var total int64
	for _, item := range b.Items {
		total += cents(item.Price) * int64(item.Quantity)
	}
	return total + cents(b.ShippingPrice)
}

func cents(price float64) int64 {
	return int64(math.Round(price * 100))
}
