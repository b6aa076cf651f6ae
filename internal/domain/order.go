package domain

import "github.com/google/uuid"

type OrderStatus string

const (
	OrderStatusCreated         OrderStatus = "CREATED"
	OrderStatusPaymentReceived OrderStatus = "PAYMENT_RECEIVED"
	OrderStatusPaymentFailed   OrderStatus = "PAYMENT_FAILED"
)

// IsTerminal reports whether no further transition is defined for the status.
// The only transitions are CREATED -> PAYMENT_RECEIVED and
// CREATED -> PAYMENT_FAILED, both driven by gateway webhooks.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusPaymentReceived || s == OrderStatusPaymentFailed
}

func (s OrderStatus) String() string {
	return string(s)
}

// Order is the durable record of a submitted checkout. Subtotal is a
// creation-time snapshot and is never recomputed from the catalog.
type Order struct {
	ID               uuid.UUID       `json:"id"`
	BuyerEmail       string          `json:"buyer_email"`
	Items            []OrderItem     `json:"items"`
	Subtotal         float64         `json:"subtotal"`
	DeliveryMethodID int64           `json:"delivery_method_id"`
	DeliveryMethod   *DeliveryMethod `json:"delivery_method,omitempty"`
	ShippingAddress  Address         `json:"shipping_address"`
	PaymentIntentID  string          `json:"payment_intent_id"`
	Status           OrderStatus     `json:"status"`
	AuditInfo
}

// OrderItem is owned by exactly one Order and snapshots the product at order
// time; catalog changes after creation do not affect it.
type OrderItem struct {
	ID          uuid.UUID `json:"id"`
	OrderID     uuid.UUID `json:"order_id"`
	ProductID   int64     `json:"product_id"`
	ProductName string    `json:"product_name"`
	PictureURL  string    `json:"picture_url"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	AuditInfo
}

type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Street    string `json:"street"`
	City      string `json:"city"`
	Country   string `json:"country"`
}
