package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mkhalil/go_storefront/internal/basket"
	"github.com/mkhalil/go_storefront/internal/domain"
	"github.com/mkhalil/go_storefront/internal/gateway"
	"github.com/mkhalil/go_storefront/internal/repository"
)

// Actor recorded on audit fields for writes not tied to a buyer.
const actorPayments = "payments"

type PaymentService interface {
	CreateOrUpdateIntent(ctx context.Context, basketID string) (*domain.Basket, error)
	ProcessWebhook(ctx context.Context, payload []byte, signatureHeader string) error
}

type OrderService interface {
	CreateOrder(ctx context.Context, buyerEmail string, req *CreateOrderRequest) (*domain.Order, error)
	ListOrdersForBuyer(ctx context.Context, buyerEmail string) ([]*domain.Order, error)
	GetOrder(ctx context.Context, buyerEmail string, orderID uuid.UUID) (*domain.Order, error)
	ListDeliveryMethods(ctx context.Context) ([]*domain.DeliveryMethod, error)
}

type EventPublisher interface {
	PublishOrderStatus(ctx context.Context, order *domain.Order) error
}

type PaymentConfig struct {
	Currency           string
	PaymentMethodTypes []string
	WebhookSecret      string
	WebhookTolerance   time.Duration
}

type PaymentServiceImpl struct {
	baskets    basket.Store
	repos      repository.Factory
	gateway    gateway.Client
	reconciler *PriceReconciler
	events     EventPublisher
	cfg        PaymentConfig
}

func NewPaymentService(
	baskets basket.Store,
	repos repository.Factory,
	gw gateway.Client,
	events EventPublisher,
	cfg PaymentConfig) *PaymentServiceImpl {

	return &PaymentServiceImpl{
		baskets:    baskets,
		repos:      repos,
		gateway:    gw,
		reconciler: NewPriceReconciler(baskets, repos),
		events:     events,
		cfg:        cfg,
	}
}

type OrderServiceImpl struct {
	baskets  basket.Store
	repos    repository.Factory
	payments PaymentService
	events   EventPublisher
}

func NewOrderService(
	baskets basket.Store,
	repos repository.Factory,
	payments PaymentService,
	events EventPublisher) *OrderServiceImpl {

	return &OrderServiceImpl{
		baskets:  baskets,
		repos:    repos,
		payments: payments,
		events:   events,
	}
}
