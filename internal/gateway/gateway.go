package gateway

import "context"

// Intent is the gateway's record of an intended charge. ClientSecret is
// handed to the payer's client to authorize the payment.
type Intent struct {
	ID           string
	ClientSecret string
}

// Client abstracts the external payment gateway. Amounts are in minor
// currency units (cents); the core never sends the gateway a float.
type Client interface {
	CreateIntent(ctx context.Context, amount int64, currency string, paymentMethodTypes []string) (*Intent, error)
	UpdateIntent(ctx context.Context, intentID string, amount int64) error
}
