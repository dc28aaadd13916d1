package domain

import (
	"time"

	"github.com/google/uuid"
)

// LedgerEntry records one submitted transaction for later review on the
// dashboard. Details holds the request payload as JSON.
type LedgerEntry struct {
	ID            uuid.UUID       `json:"id"`
	AccountID     string          `json:"account_id"`
	TransactionID string          `json:"transaction_id"`
	Kind          TransactionKind `json:"kind"`
	Status        ReceiptStatus   `json:"status"`
	Simulated     bool            `json:"simulated"`
	Details       string          `json:"details,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// NewLedgerEntry builds an entry for a receipt issued to accountID.
func NewLedgerEntry(accountID string, receipt *Receipt, details string) *LedgerEntry {
	return &LedgerEntry{
		ID:            uuid.New(),
		AccountID:     accountID,
		TransactionID: receipt.TransactionID,
		Kind:          receipt.Kind,
		Status:        receipt.Status,
		Simulated:     receipt.Simulated,
		Details:       details,
		CreatedAt:     time.Now().UTC(),
	}
}
