package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/BRMilev22/Bookbite-sub001/internal/core/ports"
)

// SessionStorage implements ports.SessionStorage on plain Redis strings.
// Keys are used as given; expiry is delegated to Redis.
type SessionStorage struct {
	client *redis.Client
}

// NewSessionStorage creates a SessionStorage wrapping the given Redis client.
func NewSessionStorage(client *redis.Client) ports.SessionStorage {
	return &SessionStorage{client: client}
}

func (s *SessionStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("session get %s: %w", key, err)
	}
	return b, true, nil
}

func (s *SessionStorage) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("session set %s: %w", key, err)
	}
	return nil
}

func (s *SessionStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("session delete %s: %w", key, err)
	}
	return nil
}
