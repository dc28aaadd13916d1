package ports

//go:generate mockgen -source=wallet.go -destination=mocks/wallet_mock.go -package=mocks

import (
	"context"

	"supplychain-wallet-gateway/internal/core/domain"
)

// PairingIntegration is the external pairing library the session client
// drives to reach the user's signing wallet.
type PairingIntegration interface {
	// Init starts a pairing session and returns the channel topic.
	Init(ctx context.Context, metadata domain.AppMetadata, network string, debug bool) (*domain.InitData, error)
	// GeneratePairingString encodes a connection offer for the wallet.
	GeneratePairingString(topic, network string, debug bool) (string, error)
	// ConnectToLocalWallet prompts the locally installed wallet to pair.
	ConnectToLocalWallet(ctx context.Context, pairingString string) error
	// Provider returns a signer bound to one paired account.
	Provider(network, topic, accountID string) (Provider, error)
	// Disconnect tears down the channel identified by topic.
	Disconnect(ctx context.Context, topic string) error
	// Events delivers lifecycle notifications. The channel is closed when the
	// integration shuts down.
	Events() <-chan domain.WalletEvent
}

// Provider signs and submits transactions on behalf of a paired account.
type Provider interface {
	SendTransaction(ctx context.Context, req domain.TransactionRequest) (*domain.Receipt, error)
}

// AccountSelector picks one of the simulated wallet's accounts. It returns the
// raw choice (a 1-based index as text); blank means "use the default".
type AccountSelector interface {
	SelectAccount(ctx context.Context, accounts []domain.CannedAccount) (string, error)
}
