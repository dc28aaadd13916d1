package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"supplychain-wallet-gateway/internal/core/domain"
	"supplychain-wallet-gateway/pkg/apperror"
)

const defaultTokenSymbol = "PROD"

// HbarToTinybars converts a decimal HBAR amount into tinybars. amount must
// not exceed domain.MaxHbarAmount.
func HbarToTinybars(amount float64) int64 {
	return int64(math.Round(amount * float64(domain.TinybarsPerHbar)))
}

// BuildHbarTransfer builds a balanced two-entry transfer of amount HBAR.
func BuildHbarTransfer(fromAccountID, toAccountID string, amount float64) (domain.TransactionRequest, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return domain.TransactionRequest{}, apperror.ErrInvalidTransaction("Transfer amount must be a positive number")
	}
	if amount > float64(domain.MaxHbarAmount) {
		return domain.TransactionRequest{}, apperror.ErrInvalidTransaction(fmt.Sprintf("Transfer amount must not exceed %d HBAR", domain.MaxHbarAmount))
	}
	tinybars := HbarToTinybars(amount)
	if tinybars == 0 {
		return domain.TransactionRequest{}, apperror.ErrInvalidTransaction("Transfer amount is below one tinybar")
	}
	return domain.TransactionRequest{
		Kind: domain.KindCryptoTransfer,
		Transfers: []domain.Transfer{
			{AccountID: fromAccountID, Amount: -tinybars},
			{AccountID: toAccountID, Amount: tinybars},
		},
	}, nil
}

// encodeMessage passes strings through and JSON-encodes everything else.
func encodeMessage(message any) (string, error) {
	if s, ok := message.(string); ok {
		return s, nil
	}
	raw, err := json.Marshal(message)
	if err != nil {
		return "", apperror.ErrInvalidTransaction(fmt.Sprintf("Message is not serializable: %v", err))
	}
	return string(raw), nil
}

// BuildProductToken builds the token-creation payload for a product. Products
// are unique NFTs unless the caller asks for a fungible batch.
func BuildProductToken(accountID string, product domain.ProductToken) (domain.TransactionRequest, error) {
	symbol := product.SKU
	if symbol == "" {
		symbol = defaultTokenSymbol
	}

	token := &domain.TokenCreate{
		TokenName:         product.Name,
		TokenSymbol:       symbol,
		Decimals:          0,
		InitialSupply:     1,
		TreasuryAccountID: accountID,
		AdminKey:          domain.KeyRef{Key: accountID},
		SupplyKey:         domain.KeyRef{Key: accountID},
		FreezeDefault:     false,
		TokenType:         domain.TokenNonFungibleUnique,
		SupplyType:        domain.SupplyFinite,
		MaxSupply:         1,
	}
	if product.Fungible {
		if product.Quantity <= 0 {
			return domain.TransactionRequest{}, apperror.ErrInvalidTransaction("Fungible product tokens need a positive quantity")
		}
		token.TokenType = domain.TokenFungibleCommon
		token.InitialSupply = product.Quantity
		token.MaxSupply = product.Quantity
	}

	return domain.TransactionRequest{Kind: domain.KindTokenCreate, TokenCreate: token}, nil
}

// TransferHBAR moves amount HBAR from the connected account to toAccountID.
func (c *WalletSessionClient) TransferHBAR(ctx context.Context, toAccountID string, amount float64) (*domain.Receipt, error) {
	c.log.Info().Str("to", toAccountID).Float64("amount", amount).Msg("transferring hbar")

	req, err := BuildHbarTransfer(c.AccountID(), toAccountID, amount)
	if err != nil {
		return nil, c.logFailure("transfer_hbar", err)
	}
	return c.execute(ctx, "transfer_hbar", req)
}

// SubmitMessage posts message to a consensus topic.
func (c *WalletSessionClient) SubmitMessage(ctx context.Context, topicID string, message any) (*domain.Receipt, error) {
	body, err := encodeMessage(message)
	if err != nil {
		return nil, c.logFailure("submit_message", err)
	}
	return c.execute(ctx, "submit_message", domain.TransactionRequest{
		Kind:    domain.KindConsensusMessageSubmit,
		TopicID: topicID,
		Message: body,
	})
}

// CreateTopic opens a consensus topic whose memo names its creator.
func (c *WalletSessionClient) CreateTopic(ctx context.Context, name, description string) (*domain.Receipt, error) {
	memo := fmt.Sprintf("%s | %s | Created by: %s", name, description, c.AccountID())
	return c.execute(ctx, "create_topic", domain.TransactionRequest{
		Kind:      domain.KindConsensusTopicCreate,
		TopicMemo: memo,
	})
}

func (c *WalletSessionClient) CreateProductToken(ctx context.Context, product domain.ProductToken) (*domain.Receipt, error) {
	req, err := BuildProductToken(c.AccountID(), product)
	if err != nil {
		return nil, c.logFailure("create_product_token", err)
	}
	return c.execute(ctx, "create_product_token", req)
}

// MintProductNFT mints a token serial carrying metadata as JSON.
func (c *WalletSessionClient) MintProductNFT(ctx context.Context, tokenID string, metadata any) (*domain.Receipt, error) {
	raw, err := json.Marshal(metadata)
	if err != nil {
		return nil, c.logFailure("mint_product_nft", apperror.ErrInvalidTransaction(fmt.Sprintf("Metadata is not serializable: %v", err)))
	}
	return c.execute(ctx, "mint_product_nft", domain.TransactionRequest{
		Kind:     domain.KindTokenMint,
		TokenID:  tokenID,
		Metadata: string(raw),
	})
}

func (c *WalletSessionClient) TransferNFT(ctx context.Context, tokenID, toAccountID string) (*domain.Receipt, error) {
	return c.execute(ctx, "transfer_nft", domain.TransactionRequest{
		Kind:              domain.KindTokenTransfer,
		TokenID:           tokenID,
		SenderAccountID:   c.AccountID(),
		ReceiverAccountID: toAccountID,
	})
}

// RecordProductUpdate publishes a status change to the product's topic.
// Keys in data override the generated fields.
func (c *WalletSessionClient) RecordProductUpdate(ctx context.Context, productID string, status domain.ProductStatus, data map[string]any) (*domain.Receipt, error) {
	if !status.Valid() {
		return nil, c.logFailure("record_product_update", apperror.ErrInvalidTransaction(fmt.Sprintf("Unknown product status %d", status)))
	}

	update := map[string]any{
		"productId": productID,
		"status":    status.String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"updatedBy": c.AccountID(),
	}
	for k, v := range data {
		update[k] = v
	}

	return c.SubmitMessage(ctx, productID, update)
}

func (c *WalletSessionClient) execute(ctx context.Context, op string, req domain.TransactionRequest) (*domain.Receipt, error) {
	receipt, err := c.ExecuteTransaction(ctx, req)
	if err != nil {
		return nil, c.logFailure(op, err)
	}
	return receipt, nil
}

func (c *WalletSessionClient) logFailure(op string, err error) error {
	c.log.Error().Err(err).Str("op", op).Msg("wallet operation failed")
	return err
}
