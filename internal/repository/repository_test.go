package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mkhalil/go_storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDB(t *testing.T) (*Postgres, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	creds := &Credentials{
		Host:              host,
		Port:              port.Int(),
		User:              "testuser",
		Password:          "testpass",
		DBName:            "testdb",
		MigrationsDirPath: "../../migrations",
	}

	pg, err := NewPostgres(creds)
	require.NoError(t, err)

	err = pg.RunMigrations(creds)
	require.NoError(t, err)

	cleanup := func() {
		pg.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return pg, cleanup
}

func seedProduct(t *testing.T, pg *Postgres, id int64, name string, price float64) {
	ctx := context.Background()
	uow := pg.NewUnitOfWork("seed")
	uow.Products().Add(&domain.Product{ID: id, Name: name, Price: price})
	_, err := uow.Commit(ctx)
	require.NoError(t, err)
}

func testOrder(buyerEmail, paymentIntentID string) *domain.Order {
	return &domain.Order{
		ID:               uuid.New(),
		BuyerEmail:       buyerEmail,
		Items:            []domain.OrderItem{{ProductID: 1, ProductName: "Boots", Price: 6.00, Quantity: 2}},
		Subtotal:         12.00,
		DeliveryMethodID: 2,
		ShippingAddress: domain.Address{
			FirstName: "Jane",
			LastName:  "Doe",
			Street:    "1 Main St",
			City:      "Springfield",
			Country:   "US",
		},
		PaymentIntentID: paymentIntentID,
		Status:          domain.OrderStatusCreated,
	}
}

func TestOrderRoundTrip(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	seedProduct(t, pg, 1, "Boots", 6.00)

	uow := pg.NewUnitOfWork("buyer@example.com")
	order := testOrder("buyer@example.com", "pi_123")
	uow.Orders().Add(order)

	affected, err := uow.Commit(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected) // order row plus one item row

	got, err := pg.NewUnitOfWork("buyer@example.com").Orders().
		GetWithSpec(ctx, OrderByPaymentIntent("pi_123"))
	require.NoError(t, err)

	assert.Equal(t, order.ID, got.ID)
	assert.Equal(t, "buyer@example.com", got.BuyerEmail)
	assert.Equal(t, domain.OrderStatusCreated, got.Status)
	assert.Equal(t, 12.00, got.Subtotal)
	assert.Equal(t, "Springfield", got.ShippingAddress.City)
	assert.Equal(t, "buyer@example.com", got.CreatedBy)

	require.Len(t, got.Items, 1)
	assert.Equal(t, "Boots", got.Items[0].ProductName)
	assert.Equal(t, order.ID, got.Items[0].OrderID)

	require.NotNil(t, got.DeliveryMethod)
	assert.Equal(t, "UPS2", got.DeliveryMethod.ShortName)
	assert.Equal(t, 5.00, got.DeliveryMethod.Cost)
}

func TestGetWithSpec_NotFound(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := pg.NewUnitOfWork("buyer@example.com").Orders().
		GetWithSpec(context.Background(), OrderByPaymentIntent("pi_missing"))

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderReplacement_SingleTransaction(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	seedProduct(t, pg, 1, "Boots", 6.00)

	stale := testOrder("buyer@example.com", "pi_123")
	uow := pg.NewUnitOfWork("buyer@example.com")
	uow.Orders().Add(stale)
	_, err := uow.Commit(ctx)
	require.NoError(t, err)

	// Delete items, delete order and insert the replacement as one commit.
	uow = pg.NewUnitOfWork("buyer@example.com")
	loaded, err := uow.Orders().GetWithSpec(ctx, OrderByPaymentIntent("pi_123"))
	require.NoError(t, err)

	for i := range loaded.Items {
		uow.OrderItems().Delete(&loaded.Items[i])
	}
	uow.Orders().Delete(loaded)

	replacement := testOrder("buyer@example.com", "pi_123")
	replacement.Subtotal = 18.00
	replacement.Items[0].Quantity = 3
	uow.Orders().Add(replacement)

	affected, err := uow.Commit(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), affected) // item delete, order delete, order insert, item insert

	orders, err := pg.NewUnitOfWork("buyer@example.com").Orders().
		ListWithSpec(ctx, NewSpecification().Where("payment_intent_id", "pi_123"))
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, replacement.ID, orders[0].ID)
	assert.Equal(t, 18.00, orders[0].Subtotal)
}

func TestOrderStatusUpdate(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	seedProduct(t, pg, 1, "Boots", 6.00)

	order := testOrder("buyer@example.com", "pi_123")
	uow := pg.NewUnitOfWork("buyer@example.com")
	uow.Orders().Add(order)
	_, err := uow.Commit(ctx)
	require.NoError(t, err)

	uow = pg.NewUnitOfWork("payments")
	order.Status = domain.OrderStatusPaymentReceived
	uow.Orders().Update(order)
	affected, err := uow.Commit(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	got, err := pg.NewUnitOfWork("payments").Orders().Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaymentReceived, got.Status)
	assert.Equal(t, "payments", got.ModifiedBy)
}

func TestListOrdersForBuyer_NewestFirst(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	seedProduct(t, pg, 1, "Boots", 6.00)

	first := testOrder("buyer@example.com", "pi_1")
	uow := pg.NewUnitOfWork("buyer@example.com")
	uow.Orders().Add(first)
	_, err := uow.Commit(ctx)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	second := testOrder("buyer@example.com", "pi_2")
	uow = pg.NewUnitOfWork("buyer@example.com")
	uow.Orders().Add(second)
	_, err = uow.Commit(ctx)
	require.NoError(t, err)

	other := testOrder("someone@else.com", "pi_3")
	uow = pg.NewUnitOfWork("someone@else.com")
	uow.Orders().Add(other)
	_, err = uow.Commit(ctx)
	require.NoError(t, err)

	orders, err := pg.NewUnitOfWork("buyer@example.com").Orders().
		ListWithSpec(ctx, OrdersForBuyer("buyer@example.com"))
	require.NoError(t, err)

	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)
}

func TestEmptyCommitIsNoOp(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	affected, err := pg.NewUnitOfWork("buyer@example.com").Commit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestDeliveryMethodSeed(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	methods, err := pg.NewUnitOfWork("payments").DeliveryMethods().
		ListWithSpec(context.Background(), NewSpecification().OrderBy("cost"))
	require.NoError(t, err)

	require.Len(t, methods, 4)
	assert.Equal(t, "FREE", methods[0].ShortName)
	assert.Equal(t, "UPS1", methods[3].ShortName)
	assert.Equal(t, 10.00, methods[3].Cost)
}
