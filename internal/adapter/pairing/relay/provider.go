package relay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"supplychain-wallet-gateway/internal/core/domain"
)

// Provider forwards transactions to the paired wallet through the relay.
type Provider struct {
	client    *Client
	network   string
	topic     string
	accountID string
}

// SendTransaction waits for the wallet to sign and the ledger to answer.
func (p *Provider) SendTransaction(ctx context.Context, req domain.TransactionRequest) (*domain.Receipt, error) {
	var receipt domain.Receipt
	err := p.client.request(ctx, frameTransaction, p.topic, transactionPayload{
		Network:   p.network,
		AccountID: p.accountID,
		Request:   req,
	}, &receipt)
	if err != nil {
		return nil, fmt.Errorf("relay transaction: %w", err)
	}
	if receipt.TransactionID == "" {
		return nil, errors.New("relay transaction: wallet returned no transaction id")
	}
	if receipt.Kind == "" {
		receipt.Kind = req.Kind
	}
	if receipt.SubmittedAt.IsZero() {
		receipt.SubmittedAt = time.Now().UTC()
	}
	return &receipt, nil
}
