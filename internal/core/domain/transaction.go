package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// TinybarsPerHbar converts whole HBAR into the ledger's smallest unit.
const TinybarsPerHbar int64 = 100_000_000

// MaxHbarAmount is the largest whole-HBAR amount whose tinybar value fits an
// int64. MaxTinybars is the same bound in tinybars.
const (
	MaxHbarAmount = math.MaxInt64 / TinybarsPerHbar
	MaxTinybars   = MaxHbarAmount * TinybarsPerHbar
)

// TransactionKind tags a TransactionRequest payload.
type TransactionKind string

const (
	KindCryptoTransfer         TransactionKind = "cryptoTransfer"
	KindConsensusMessageSubmit TransactionKind = "consensusMessageSubmit"
	KindConsensusTopicCreate   TransactionKind = "consensusTopicCreate"
	KindTokenCreate            TransactionKind = "tokenCreate"
	KindTokenMint              TransactionKind = "tokenMint"
	KindTokenTransfer          TransactionKind = "tokenTransfer"
)

// TokenType distinguishes unique product tokens from fungible batches.
type TokenType string

const (
	TokenNonFungibleUnique TokenType = "NON_FUNGIBLE_UNIQUE"
	TokenFungibleCommon    TokenType = "FUNGIBLE_COMMON"
)

// SupplyType bounds a token's supply.
type SupplyType string

const (
	SupplyFinite   SupplyType = "FINITE"
	SupplyInfinite SupplyType = "INFINITE"
)

// Transfer is one leg of a balanced crypto transfer, in tinybars.
type Transfer struct {
	AccountID string `json:"accountId"`
	Amount    int64  `json:"amount"`
}

// KeyRef names the account whose key controls a token capability.
type KeyRef struct {
	Key string `json:"key"`
}

// TokenCreate holds the token-creation fields of a TransactionRequest.
type TokenCreate struct {
	TokenName         string     `json:"tokenName"`
	TokenSymbol       string     `json:"tokenSymbol"`
	Decimals          int        `json:"decimals"`
	InitialSupply     int64      `json:"initialSupply"`
	TreasuryAccountID string     `json:"treasuryAccountId"`
	AdminKey          KeyRef     `json:"adminKey"`
	SupplyKey         KeyRef     `json:"supplyKey"`
	FreezeDefault     bool       `json:"freezeDefault"`
	TokenType         TokenType  `json:"tokenType"`
	SupplyType        SupplyType `json:"supplyType"`
	MaxSupply         int64      `json:"maxSupply,omitempty"`
}

// TransactionRequest is the self-describing payload handed to the wallet for
// signing. Only the fields relevant to Kind are set.
type TransactionRequest struct {
	Kind TransactionKind `json:"type"`

	Transfers []Transfer `json:"transfers,omitempty"`

	TopicID   string `json:"topicId,omitempty"`
	Message   string `json:"message,omitempty"`
	TopicMemo string `json:"topicMemo,omitempty"`

	*TokenCreate

	TokenID           string `json:"tokenId,omitempty"`
	Metadata          string `json:"metadata,omitempty"`
	SenderAccountID   string `json:"senderAccountId,omitempty"`
	ReceiverAccountID string `json:"receiverAccountId,omitempty"`
}

// Validate checks the kind-specific fields.
func (r TransactionRequest) Validate() error {
	switch r.Kind {
	case KindCryptoTransfer:
		if len(r.Transfers) < 2 {
			return errors.New("transfer needs at least two entries")
		}
		var sum int64
		for _, t := range r.Transfers {
			if t.AccountID == "" {
				return errors.New("transfer entry is missing an account")
			}
			if t.Amount > MaxTinybars || t.Amount < -MaxTinybars {
				return fmt.Errorf("transfer amount %d is out of range", t.Amount)
			}
			if (t.Amount > 0 && sum > math.MaxInt64-t.Amount) || (t.Amount < 0 && sum < math.MinInt64-t.Amount) {
				return errors.New("transfer entries overflow")
			}
			sum += t.Amount
		}
		if sum != 0 {
			return fmt.Errorf("transfer entries must sum to zero, got %d", sum)
		}
	case KindConsensusMessageSubmit:
		if r.TopicID == "" {
			return errors.New("message submission needs a topic")
		}
		if r.Message == "" {
			return errors.New("message submission needs a message")
		}
	case KindConsensusTopicCreate:
		if r.TopicMemo == "" {
			return errors.New("topic creation needs a memo")
		}
	case KindTokenCreate:
		if r.TokenCreate == nil || r.TokenCreate.TokenName == "" {
			return errors.New("token creation needs a token name")
		}
	case KindTokenMint:
		if r.TokenID == "" {
			return errors.New("mint needs a token")
		}
	case KindTokenTransfer:
		if r.TokenID == "" || r.ReceiverAccountID == "" {
			return errors.New("token transfer needs a token and a receiver")
		}
	default:
		return fmt.Errorf("unknown transaction type %q", r.Kind)
	}
	return nil
}

// ReceiptStatus is the ledger's verdict on a submitted transaction.
type ReceiptStatus string

const ReceiptStatusSuccess ReceiptStatus = "SUCCESS"

// Receipt is the outcome of ExecuteTransaction. Simulated is true whenever the
// receipt was fabricated by the simulated wallet rather than the ledger.
type Receipt struct {
	Success       bool            `json:"success"`
	TransactionID string          `json:"transaction_id"`
	Status        ReceiptStatus   `json:"status"`
	Kind          TransactionKind `json:"kind"`
	Simulated     bool            `json:"simulated"`
	SubmittedAt   time.Time       `json:"submitted_at"`
}
