package domain

// Basket is the cache-resident checkout-in-progress state. It is owned by a
// single checkout session and only ever referenced by its id; the link to a
// durable Order is the shared PaymentIntentID, not the basket id.
type Basket struct {
	ID               string       `json:"id"`
	Items            []BasketItem `json:"items"`
	DeliveryMethodID *int64       `json:"delivery_method_id,omitempty"`
	ShippingPrice    float64      `json:"shipping_price"`
	PaymentIntentID  string       `json:"payment_intent_id,omitempty"`
	ClientSecret     string       `json:"client_secret,omitempty"`
}

type BasketItem struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}
