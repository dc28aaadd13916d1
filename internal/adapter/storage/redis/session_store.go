package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// SessionStore implements ports.SessionStore using Redis. Keys never expire;
// they are removed explicitly on disconnect.
type SessionStore struct {
	client *goredis.Client
	prefix string
}

// NewSessionStore creates a Redis-backed session store. keyPrefix namespaces
// the keys of one deployment.
func NewSessionStore(client *goredis.Client, keyPrefix string) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: keyPrefix + "session:",
	}
}

// Get returns nil, nil if the key does not exist.
func (s *SessionStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis session get: %w", err)
	}
	return val, nil
}

func (s *SessionStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis session set: %w", err)
	}
	return nil
}

// Delete is a no-op for missing keys.
func (s *SessionStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis session delete: %w", err)
	}
	return nil
}
