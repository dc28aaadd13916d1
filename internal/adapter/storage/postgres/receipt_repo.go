package postgres

import (
	"context"
	"fmt"

	"supplychain-wallet-gateway/internal/core/domain"
	"supplychain-wallet-gateway/internal/core/ports"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// ReceiptRepo implements ports.LedgerRepository on the wallet_receipts table.
type ReceiptRepo struct {
	pool Pool
}

var _ ports.LedgerRepository = (*ReceiptRepo)(nil)

func NewReceiptRepo(pool Pool) *ReceiptRepo {
	return &ReceiptRepo{pool: pool}
}

// Create inserts a ledger entry.
func (r *ReceiptRepo) Create(ctx context.Context, e *domain.LedgerEntry) error {
	query := `INSERT INTO wallet_receipts (id, account_id, transaction_id, kind, status, simulated, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		e.ID, e.AccountID, e.TransactionID, e.Kind, e.Status,
		e.Simulated, e.Details, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert receipt: %w", err)
	}
	return nil
}

// ListByAccount returns the newest entries for accountID. limit is clamped to
// [1, 500]; zero or less means 50.
func (r *ReceiptRepo) ListByAccount(ctx context.Context, accountID string, limit int) ([]domain.LedgerEntry, error) {
	switch {
	case limit <= 0:
		limit = defaultListLimit
	case limit > maxListLimit:
		limit = maxListLimit
	}

	query := `SELECT id, account_id, transaction_id, kind, status, simulated, COALESCE(details, ''), created_at
		FROM wallet_receipts WHERE account_id = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.LedgerEntry, 0)
	for rows.Next() {
		var e domain.LedgerEntry
		if err := rows.Scan(
			&e.ID, &e.AccountID, &e.TransactionID, &e.Kind, &e.Status,
			&e.Simulated, &e.Details, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan receipt row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate receipt rows: %w", err)
	}
	return entries, nil
}
