package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// SubmissionGuard remembers client-supplied idempotency keys so a retried
// request is not handed to the wallet twice.
type SubmissionGuard struct {
	client *goredis.Client
	prefix string
}

// NewSubmissionGuard creates a new Redis-backed submission guard.
func NewSubmissionGuard(client *goredis.Client, keyPrefix string) *SubmissionGuard {
	return &SubmissionGuard{
		client: client,
		prefix: keyPrefix + "submission:",
	}
}

// Claim atomically records key for accountID using SET NX.
// Returns true if the key is new, false if it was already claimed.
func (g *SubmissionGuard) Claim(ctx context.Context, accountID, key string, ttl time.Duration) (bool, error) {
	redisKey := g.prefix + accountID + ":" + key
	result, err := g.client.SetArgs(ctx, redisKey, 1, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis submission claim: %w", err)
	}
	return result == "OK", nil
}

// Release forgets key so the request can be retried, used when the
// submission itself failed.
func (g *SubmissionGuard) Release(ctx context.Context, accountID, key string) error {
	if err := g.client.Del(ctx, g.prefix+accountID+":"+key).Err(); err != nil {
		return fmt.Errorf("redis submission release: %w", err)
	}
	return nil
}
