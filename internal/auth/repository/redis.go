package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/fekuna/omnipos-billing-service/pkg/cache"
)

const sessionPrefix = "session:"

type RedisSessionStore struct {
	cache *cache.RedisClient
}

func NewRedisSessionStore(c *cache.RedisClient) *RedisSessionStore {
	return &RedisSessionStore{cache: c}
}

// Save keeps the session until it expires.
func (s *RedisSessionStore) Save(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.cache.SetBytes(ctx, sessionPrefix+session.ID, data, ttl)
}

// Get returns nil when the session is missing or revoked.
func (s *RedisSessionStore) Get(ctx context.Context, id string) (*model.Session, error) {
	data, ok, err := s.cache.GetBytes(ctx, sessionPrefix+id)
	if err != nil || !ok {
		return nil, err
	}
	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, sessionPrefix+id)
}
