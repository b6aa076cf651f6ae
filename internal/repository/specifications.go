package repository

import "github.com/google/uuid"

// Canned order specifications, the only queries the checkout core needs.

// OrderByPaymentIntent matches the single order tied to a payment intent.
// This is the lookup behind the at-most-one-order-per-intent invariant.
func OrderByPaymentIntent(paymentIntentID string) Specification {
	return NewSpecification().
		Where("payment_intent_id", paymentIntentID).
		Expand(ExpandItems, ExpandDeliveryMethod)
}

// OrdersForBuyer lists a buyer's orders, newest first.
func OrdersForBuyer(buyerEmail string) Specification {
	return NewSpecification().
		Where("buyer_email", buyerEmail).
		Expand(ExpandItems, ExpandDeliveryMethod).
		OrderByDesc("created_at")
}

// OrderForBuyer fetches one order scoped to its buyer; the email filter
// doubles as the authorization check.
func OrderForBuyer(buyerEmail string, orderID uuid.UUID) Specification {
	return NewSpecification().
		Where("id", orderID).
		Where("buyer_email", buyerEmail).
		Expand(ExpandItems, ExpandDeliveryMethod)
}
