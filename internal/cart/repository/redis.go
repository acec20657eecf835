package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-billing-service/internal/apperror"
	"github.com/fekuna/omnipos-billing-service/internal/cart"
	"github.com/fekuna/omnipos-billing-service/pkg/cache"
	"github.com/redis/go-redis/v9"
)

const (
	cartPrefix    = "cart:"
	updateRetries = 5
)

type RedisCartStore struct {
	cache *cache.RedisClient
	ttl   time.Duration
}

func NewRedisCartStore(c *cache.RedisClient, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{cache: c, ttl: ttl}
}

func (s *RedisCartStore) Get(ctx context.Context, sessionID string) (*cart.Cart, error) {
	data, ok, err := s.cache.GetBytes(ctx, cartPrefix+sessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return cart.New(), nil
	}
	return decode(data)
}

// Update runs fn under WATCH so concurrent writers on the same session never lose an edit.
func (s *RedisCartStore) Update(ctx context.Context, sessionID string, fn func(*cart.Cart) error) (*cart.Cart, error) {
	key := cartPrefix + sessionID
	var result *cart.Cart

	txf := func(tx *redis.Tx) error {
		c := cart.New()
		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			if c, err = decode(data); err != nil {
				return err
			}
		}

		if err := fn(c); err != nil {
			return err
		}
		encoded, err := json.Marshal(c)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, s.ttl)
			return nil
		})
		if err == nil {
			result = c
		}
		return err
	}

	for i := 0; i < updateRetries; i++ {
		err := s.cache.Client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("cart %s: %w", sessionID, apperror.ErrBusy)
}

func (s *RedisCartStore) Delete(ctx context.Context, sessionID string) error {
	return s.cache.Delete(ctx, cartPrefix+sessionID)
}

func decode(data []byte) (*cart.Cart, error) {
	c := cart.New()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	if c.Items == nil {
		c.Items = []cart.Item{}
	}
	return c, nil
}
