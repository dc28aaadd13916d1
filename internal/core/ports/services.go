package ports

//go:generate mockgen -source=services.go -destination=mocks/services_mock.go -package=mocks

import (
	"context"
	"time"

	"supplychain-wallet-gateway/internal/core/domain"
)

// WalletService mediates every interaction between the application and the
// user's signing wallet.
type WalletService interface {
	Initialize(ctx context.Context) (*domain.InitResult, error)
	ConnectWallet(ctx context.Context) (*domain.ConnectResult, error)
	ExecuteTransaction(ctx context.Context, req domain.TransactionRequest) (*domain.Receipt, error)

	TransferHBAR(ctx context.Context, toAccountID string, amount float64) (*domain.Receipt, error)
	SubmitMessage(ctx context.Context, topicID string, message any) (*domain.Receipt, error)
	CreateTopic(ctx context.Context, name, description string) (*domain.Receipt, error)
	CreateProductToken(ctx context.Context, product domain.ProductToken) (*domain.Receipt, error)
	MintProductNFT(ctx context.Context, tokenID string, metadata any) (*domain.Receipt, error)
	TransferNFT(ctx context.Context, tokenID, toAccountID string) (*domain.Receipt, error)
	RecordProductUpdate(ctx context.Context, productID string, status domain.ProductStatus, data map[string]any) (*domain.Receipt, error)

	AccountID() string
	IsWalletConnected() bool
	Mode() domain.Mode
	State() domain.State
	Session() domain.Session

	Disconnect(ctx context.Context) bool
}

// TokenService handles JWT tokens issued to a connected wallet account.
type TokenService interface {
	Generate(accountID string, role domain.Role) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	AccountID string
	Role      domain.Role
}
