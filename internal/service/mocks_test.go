package service

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/mkhalil/go_storefront/internal/basket"
	"github.com/mkhalil/go_storefront/internal/domain"
	"github.com/mkhalil/go_storefront/internal/gateway"
	"github.com/mkhalil/go_storefront/internal/repository"
)

// MockBasketStore implements basket.Store for testing
type MockBasketStore struct {
	Baskets  map[string]*domain.Basket
	GetErr   error
	SetErr   error
	SetCalls int
}

func NewMockBasketStore(baskets ...*domain.Basket) *MockBasketStore {
	m := &MockBasketStore{Baskets: make(map[string]*domain.Basket)}
	for _, b := range baskets {
		m.Baskets[b.ID] = b
	}
	return m
}

func (m *MockBasketStore) Get(_ context.Context, basketID string) (*domain.Basket, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	b, ok := m.Baskets[basketID]
	if !ok {
		return nil, basket.ErrBasketNotFound
	}
	return b, nil
}

func (m *MockBasketStore) Set(_ context.Context, b *domain.Basket) error {
	m.SetCalls++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Baskets[b.ID] = b
	return nil
}

func (m *MockBasketStore) Delete(_ context.Context, basketID string) error {
	delete(m.Baskets, basketID)
	return nil
}

// MockFactory implements repository.Factory, handing out a single shared
// unit of work so tests can inspect buffered mutations afterwards.
type MockFactory struct {
	UOW    *MockUnitOfWork
	Actors []string
}

func (m *MockFactory) NewUnitOfWork(actor string) repository.UnitOfWork {
	m.Actors = append(m.Actors, actor)
	return m.UOW
}

type MockUnitOfWork struct {
	OrdersRepo   *MockOrderRepository
	ItemsRepo    *MockOrderItemRepository
	ProductsRepo *MockProductRepository
	DeliveryRepo *MockDeliveryMethodRepository

	mutations         int64
	CommitErr         error
	CommitCalls       int
	ForceZeroAffected bool
}

func NewMockUnitOfWork() *MockUnitOfWork {
	u := &MockUnitOfWork{
		ProductsRepo: &MockProductRepository{Products: make(map[int64]*domain.Product)},
		DeliveryRepo: &MockDeliveryMethodRepository{Methods: make(map[int64]*domain.DeliveryMethod)},
	}
	u.OrdersRepo = &MockOrderRepository{uow: u}
	u.ItemsRepo = &MockOrderItemRepository{uow: u}
	return u
}

func (u *MockUnitOfWork) Orders() repository.OrderRepository                   { return u.OrdersRepo }
func (u *MockUnitOfWork) OrderItems() repository.OrderItemRepository           { return u.ItemsRepo }
func (u *MockUnitOfWork) Products() repository.ProductRepository               { return u.ProductsRepo }
func (u *MockUnitOfWork) DeliveryMethods() repository.DeliveryMethodRepository { return u.DeliveryRepo }

func (u *MockUnitOfWork) Commit(_ context.Context) (int64, error) {
	u.CommitCalls++
	if u.CommitErr != nil {
		return 0, u.CommitErr
	}
	if u.ForceZeroAffected {
		return 0, nil
	}
	affected := u.mutations
	u.mutations = 0
	return affected, nil
}

// MockOrderRepository implements repository.OrderRepository for testing
type MockOrderRepository struct {
	uow     *MockUnitOfWork
	Orders  []*domain.Order
	Added   []*domain.Order
	Updated []*domain.Order
	Deleted []*domain.Order
	ReadErr error
}

func (m *MockOrderRepository) Get(_ context.Context, key uuid.UUID) (*domain.Order, error) {
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	for _, o := range m.Orders {
		if o.ID == key {
			return o, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockOrderRepository) GetWithSpec(_ context.Context, spec repository.Specification) (*domain.Order, error) {
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	for _, o := range m.Orders {
		if orderMatches(o, spec) {
			return o, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockOrderRepository) ListWithSpec(_ context.Context, spec repository.Specification) ([]*domain.Order, error) {
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	var matched []*domain.Order
	for _, o := range m.Orders {
		if orderMatches(o, spec) {
			matched = append(matched, o)
		}
	}
	if spec.Ordering != nil && spec.Ordering.Field == "created_at" && spec.Ordering.Descending {
		sort.Slice(matched, func(i, j int) bool {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		})
	}
	return matched, nil
}

func (m *MockOrderRepository) Add(order *domain.Order) {
	m.Added = append(m.Added, order)
	m.Orders = append(m.Orders, order)
	m.uow.mutations += int64(1 + len(order.Items))
}

func (m *MockOrderRepository) Update(order *domain.Order) {
	m.Updated = append(m.Updated, order)
	m.uow.mutations++
}

func (m *MockOrderRepository) Delete(order *domain.Order) {
	m.Deleted = append(m.Deleted, order)
	for i, o := range m.Orders {
		if o.ID == order.ID {
			m.Orders = append(m.Orders[:i], m.Orders[i+1:]...)
			break
		}
	}
	m.uow.mutations++
}

func orderMatches(o *domain.Order, spec repository.Specification) bool {
	for _, f := range spec.Filters {
		switch f.Field {
		case "payment_intent_id":
			if o.PaymentIntentID != f.Value.(string) {
				return false
			}
		case "buyer_email":
			if o.BuyerEmail != f.Value.(string) {
				return false
			}
		case "id":
			if o.ID != f.Value.(uuid.UUID) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// MockOrderItemRepository implements repository.OrderItemRepository
type MockOrderItemRepository struct {
	uow     *MockUnitOfWork
	Deleted []*domain.OrderItem
}

func (m *MockOrderItemRepository) Get(_ context.Context, _ uuid.UUID) (*domain.OrderItem, error) {
	return nil, repository.ErrNotFound
}

func (m *MockOrderItemRepository) GetWithSpec(_ context.Context, _ repository.Specification) (*domain.OrderItem, error) {
	return nil, repository.ErrNotFound
}

func (m *MockOrderItemRepository) ListWithSpec(_ context.Context, _ repository.Specification) ([]*domain.OrderItem, error) {
	return nil, nil
}

func (m *MockOrderItemRepository) Add(_ *domain.OrderItem) { m.uow.mutations++ }

func (m *MockOrderItemRepository) Update(_ *domain.OrderItem) { m.uow.mutations++ }

func (m *MockOrderItemRepository) Delete(item *domain.OrderItem) {
	m.Deleted = append(m.Deleted, item)
	m.uow.mutations++
}

// MockProductRepository implements repository.ProductRepository
type MockProductRepository struct {
	Products map[int64]*domain.Product
	ReadErr  error
}

func (m *MockProductRepository) Get(_ context.Context, key int64) (*domain.Product, error) {
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	p, ok := m.Products[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (m *MockProductRepository) GetWithSpec(_ context.Context, _ repository.Specification) (*domain.Product, error) {
	return nil, repository.ErrNotFound
}

func (m *MockProductRepository) ListWithSpec(_ context.Context, _ repository.Specification) ([]*domain.Product, error) {
	var products []*domain.Product
	for _, p := range m.Products {
		products = append(products, p)
	}
	return products, nil
}

func (m *MockProductRepository) Add(_ *domain.Product)    {}
func (m *MockProductRepository) Update(_ *domain.Product) {}
func (m *MockProductRepository) Delete(_ *domain.Product) {}

// MockDeliveryMethodRepository implements repository.DeliveryMethodRepository
type MockDeliveryMethodRepository struct {
	Methods map[int64]*domain.DeliveryMethod
	ReadErr error
}

func (m *MockDeliveryMethodRepository) Get(_ context.Context, key int64) (*domain.DeliveryMethod, error) {
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	dm, ok := m.Methods[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return dm, nil
}

func (m *MockDeliveryMethodRepository) GetWithSpec(_ context.Context, _ repository.Specification) (*domain.DeliveryMethod, error) {
	return nil, repository.ErrNotFound
}

func (m *MockDeliveryMethodRepository) ListWithSpec(_ context.Context, _ repository.Specification) ([]*domain.DeliveryMethod, error) {
	var methods []*domain.DeliveryMethod
	for _, dm := range m.Methods {
		methods = append(methods, dm)
	}
	sort.Slice(methods, func(i, j int) bool { return methods[i].ID < methods[j].ID })
	return methods, nil
}

func (m *MockDeliveryMethodRepository) Add(_ *domain.DeliveryMethod)    {}
func (m *MockDeliveryMethodRepository) Update(_ *domain.DeliveryMethod) {}
func (m *MockDeliveryMethodRepository) Delete(_ *domain.DeliveryMethod) {}

// MockGateway implements gateway.Client for testing
type MockGateway struct {
	Intent         *gateway.Intent
	CreateErr      error
	UpdateErr      error
	CreatedAmounts []int64
	UpdatedAmounts map[string]int64
	Currency       string
	MethodTypes    []string
}

func (m *MockGateway) CreateIntent(_ context.Context, amount int64, currency string, paymentMethodTypes []string) (*gateway.Intent, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	m.CreatedAmounts = append(m.CreatedAmounts, amount)
	m.Currency = currency
	m.MethodTypes = paymentMethodTypes
	return m.Intent, nil
}

func (m *MockGateway) UpdateIntent(_ context.Context, intentID string, amount int64) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	if m.UpdatedAmounts == nil {
		m.UpdatedAmounts = make(map[string]int64)
	}
	m.UpdatedAmounts[intentID] = amount
	return nil
}

// MockPublisher implements EventPublisher for testing
type MockPublisher struct {
	Published []*domain.Order
	Err       error
}

func (m *MockPublisher) PublishOrderStatus(_ context.Context, order *domain.Order) error {
	if m.Err != nil {
		return m.Err
	}
	m.Published = append(m.Published, order)
	return nil
}

// MockPaymentService implements PaymentService for order service tests
type MockPaymentService struct {
	Basket *domain.Basket
	Err    error
	Calls  int
}

func (m *MockPaymentService) CreateOrUpdateIntent(_ context.Context, _ string) (*domain.Basket, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Basket, nil
}

func (m *MockPaymentService) ProcessWebhook(_ context.Context, _ []byte, _ string) error {
	return nil
}
