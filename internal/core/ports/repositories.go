package ports

//go:generate mockgen -source=repositories.go -destination=mocks/repositories_mock.go -package=mocks

import (
	"context"
	"time"

	"supplychain-wallet-gateway/internal/core/domain"
)

// SessionStore is the durable key-value store that keeps pairing state across
// restarts. Get returns nil, nil when the key does not exist.
type SessionStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// LedgerRepository persists receipts of submitted transactions.
type LedgerRepository interface {
	Create(ctx context.Context, entry *domain.LedgerEntry) error
	ListByAccount(ctx context.Context, accountID string, limit int) ([]domain.LedgerEntry, error)
}

// SubmissionGuard records client idempotency keys per account. Claim reports
// false when the key was already claimed and not released.
type SubmissionGuard interface {
	Claim(ctx context.Context, accountID, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, accountID, key string) error
}
