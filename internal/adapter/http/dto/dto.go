package dto

import (
	"encoding/json"

	"supplychain-wallet-gateway/internal/core/domain"
)

// ConnectRequest is the optional body of POST /wallet/connect. AccountChoice
// picks a simulated account by its 1-based position.
type ConnectRequest struct {
	AccountChoice string `json:"account_choice" binding:"omitempty,numeric,max=2"`
}

// ConnectResponse carries the connected account and a token for the
// wallet-authenticated routes.
type ConnectResponse struct {
	AccountID string `json:"account_id"`
	Mode      string `json:"mode"`
	Role      string `json:"role"`
	Token     string `json:"token"`
	Expiry    int64  `json:"expiry"` // Unix timestamp
}

// StatusResponse describes the shared wallet session.
type StatusResponse struct {
	State         string `json:"state"`
	Mode          string `json:"mode"`
	Connected     bool   `json:"connected"`
	AccountID     string `json:"account_id,omitempty"`
	Role          string `json:"role,omitempty"`
	Topic         string `json:"topic,omitempty"`
	PairingString string `json:"pairing_string,omitempty"`
}

// TransferHbarRequest is the body of POST /transfers/hbar. Amount is in HBAR,
// capped at domain.MaxHbarAmount.
type TransferHbarRequest struct {
	To     string  `json:"to" binding:"required,hedera_account"`
	Amount float64 `json:"amount" binding:"required,gt=0,lte=92233720368"`
}

// CreateTopicRequest is the body of POST /topics.
type CreateTopicRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// SubmitMessageRequest is the body of POST /topics/:topic_id/messages. A JSON
// string is sent verbatim, anything else as compact JSON.
type SubmitMessageRequest struct {
	Message json.RawMessage `json:"message" binding:"required"`
}

// CreateProductTokenRequest is the body of POST /products/tokens.
type CreateProductTokenRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	SKU      string `json:"sku" binding:"omitempty,max=16,safe_id"`
	Fungible bool   `json:"fungible"`
	Quantity int64  `json:"quantity" binding:"gte=0"`
}

// MintRequest is the body of POST /products/tokens/:token_id/mint.
type MintRequest struct {
	Metadata json.RawMessage `json:"metadata" binding:"required"`
}

// TransferNFTRequest is the body of POST /products/tokens/:token_id/transfer.
type TransferNFTRequest struct {
	To string `json:"to" binding:"required,hedera_account"`
}

// ProductUpdateRequest is the body of POST /products/:product_id/updates.
// Status is the supply-chain stage index (0 Created .. 7 Sold).
type ProductUpdateRequest struct {
	Status *int           `json:"status" binding:"required,min=0,max=7"`
	Data   map[string]any `json:"data"`
}

// ReceiptListResponse wraps the caller's recent ledger entries.
type ReceiptListResponse struct {
	Items []domain.LedgerEntry `json:"items"`
	Count int                  `json:"count"`
}

// MessageValue unwraps a JSON string and leaves any other JSON value as is.
func MessageValue(raw json.RawMessage) any {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return raw
}
