// Package redisstate implements transient cross-request state on Redis.
package redisstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"homestream/internal/domain"
	"homestream/internal/repository"
)

// RedisSelectionStore is the Redis implementation of
// repository.SelectionStore. Entries expire on their own; an abandoned
// create/join that never reaches the websocket simply ages out.
type RedisSelectionStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

func NewRedisSelectionStore(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisSelectionStore {
	if client == nil {
		panic("redis client cannot be nil for RedisSelectionStore")
	}
	if keyPrefix == "" {
		keyPrefix = "hs:"
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisSelectionStore{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

func (s *RedisSelectionStore) selectionKey(userID uint) string {
	return fmt.Sprintf("%suser:%d:selection", s.keyPrefix, userID)
}

func (s *RedisSelectionStore) Put(ctx context.Context, userID uint, sel *domain.PendingSelection) error {
	data, err := json.Marshal(sel)
	if err != nil {
		return fmt.Errorf("redis: marshal pending selection: %w", err)
	}
	if err := s.client.Set(ctx, s.selectionKey(userID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set pending selection for user %d: %w", userID, err)
	}
	return nil
}

func (s *RedisSelectionStore) Get(ctx context.Context, userID uint) (*domain.PendingSelection, error) {
	data, err := s.client.Get(ctx, s.selectionKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrSelectionNotFound
		}
		return nil, fmt.Errorf("redis: get pending selection for user %d: %w", userID, err)
	}
	var sel domain.PendingSelection
	if err := json.Unmarshal(data, &sel); err != nil {
		return nil, fmt.Errorf("redis: unmarshal pending selection for user %d: %w", userID, err)
	}
	return &sel, nil
}

func (s *RedisSelectionStore) Delete(ctx context.Context, userID uint) error {
	if err := s.client.Del(ctx, s.selectionKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis: delete pending selection for user %d: %w", userID, err)
	}
	return nil
}
