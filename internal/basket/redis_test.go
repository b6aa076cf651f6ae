package basket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/mkhalil/go_storefront/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates a miniredis server and returns a RedisStore instance
func setupTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	store := NewRedisStore(client, 7)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return store, mr, cleanup
}

func testBasket(id string) *domain.Basket {
	deliveryID := int64(1)
	return &domain.Basket{
		ID: id,
		Items: []domain.BasketItem{
			{ProductID: 1, Quantity: 2, Price: 5.00},
			{ProductID: 2, Quantity: 1, Price: 12.50},
		},
		DeliveryMethodID: &deliveryID,
		ShippingPrice:    3.00,
	}
}

func TestGet_Success(t *testing.T) {
	store, mr, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	b := testBasket("b1")

	basketJSON, _ := json.Marshal(b)
	mr.Set(storeKey("b1"), string(basketJSON))

	result, err := store.Get(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "b1", result.ID)
	assert.Len(t, result.Items, 2)
	assert.Equal(t, int64(1), result.Items[0].ProductID)
	assert.Equal(t, 3.00, result.ShippingPrice)
}

func TestGet_NotFound(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	result, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrBasketNotFound)
	assert.Nil(t, result)
}

func TestGet_InvalidJSON(t *testing.T) {
	store, mr, cleanup := setupTestStore(t)
	defer cleanup()

	mr.Set(storeKey("broken"), "{not json")

	result, err := store.Get(context.Background(), "broken")
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestSet_AppliesTTL(t *testing.T) {
	store, mr, cleanup := setupTestStore(t)
	defer cleanup()

	b := testBasket("b1")
	err := store.Set(context.Background(), b)
	require.NoError(t, err)

	ttl := mr.TTL(storeKey("b1"))
	assert.Equal(t, 7*24*time.Hour, ttl)
}

func TestSet_RefreshesTTLOnRewrite(t *testing.T) {
	store, mr, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	b := testBasket("b1")
	require.NoError(t, store.Set(ctx, b))

	// Age the key, then write again: TTL must be back to full length.
	mr.FastForward(48 * time.Hour)
	require.NoError(t, store.Set(ctx, b))

	ttl := mr.TTL(storeKey("b1"))
	assert.Equal(t, 7*24*time.Hour, ttl)
}

func TestSet_Roundtrip(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	b := testBasket("b1")
	b.PaymentIntentID = "pi_123"
	b.ClientSecret = "pi_123_secret"

	require.NoError(t, store.Set(ctx, b))

	result, err := store.Get(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, b, result)
}

func TestDelete_RemovesBasket(t *testing.T) {
	store, mr, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, testBasket("b1")))

	require.NoError(t, store.Delete(ctx, "b1"))
	assert.False(t, mr.Exists(storeKey("b1")))

	_, err := store.Get(ctx, "b1")
	assert.ErrorIs(t, err, ErrBasketNotFound)
}

func TestDelete_MissingKeyIsNoError(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	assert.NoError(t, store.Delete(context.Background(), "missing"))
}
