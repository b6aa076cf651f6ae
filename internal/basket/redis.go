package basket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mkhalil/go_storefront/internal/domain"
	"github.com/redis/go-redis/v9"
)

func NewRedisStore(client *redis.Client, ttlDays int) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    time.Duration(ttlDays) * 24 * time.Hour,
	}
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func (r RedisStore) Get(ctx context.Context, basketID string) (*domain.Basket, error) {
	data, err := r.client.Get(ctx, storeKey(basketID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrBasketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var b domain.Basket
	if err2 := json.Unmarshal(data, &b); err2 != nil {
		return nil, fmt.Errorf("unmarshal basket failed: %w", err2)
	}

	return &b, nil
}

func (r RedisStore) Set(ctx context.Context, basket *domain.Basket) error {
	jsonBasket, err := json.Marshal(basket)
	if err != nil {
		return fmt.Errorf("marshal basket failed: %w", err)
	}

	// TTL is applied on every write, so any basket edit extends its life.
	ret := r.client.Set(ctx, storeKey(basket.ID), string(jsonBasket), r.ttl)
	if ret.Err() != nil {
		return fmt.Errorf("redis set failed: %w", ret.Err())
	}
	return nil
}

func (r RedisStore) Delete(ctx context.Context, basketID string) error {
	if err := r.client.Del(ctx, storeKey(basketID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}

	return nil
}

func storeKey(basketID string) string {
	return fmt.Sprintf("basket:%s", basketID)
}
