package handler

import (
	"time"

	"supplychain-wallet-gateway/internal/adapter/http/middleware"
	redisStore "supplychain-wallet-gateway/internal/adapter/storage/redis"
	"supplychain-wallet-gateway/internal/core/domain"
	"supplychain-wallet-gateway/internal/core/ports"
	"supplychain-wallet-gateway/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const idempotencyTTL = 24 * time.Hour

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	Wallet          ports.WalletService
	TokenSvc        ports.TokenService
	Ledger          ports.LedgerRepository    // nil = receipts are not recorded
	SubmissionGuard ports.SubmissionGuard     // nil = Idempotency-Key ignored
	RateLimitStore  *redisStore.RateLimitStore // nil = rate limiting disabled
	Metrics         *metrics.Recorder          // nil = no metrics
	MetricsPath     string
	HealthCheckers  []ports.HealthChecker
	Logger          zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
		path := deps.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(deps.Metrics.Handler()))
	}

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	rules := middleware.DefaultRateLimitRules()
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	idem := func(c *gin.Context) { c.Next() }
	if deps.SubmissionGuard != nil {
		idem = middleware.Idempotency(deps.SubmissionGuard, idempotencyTTL, deps.Logger)
	}

	walletHandler := NewWalletHandler(deps.Wallet, deps.TokenSvc, deps.Metrics, deps.Logger)
	txHandler := NewTransactionHandler(deps.Wallet, deps.Ledger, deps.Metrics, deps.Logger)

	v1 := r.Group("/api/v1")

	// --- Public routes ---
	wallet := v1.Group("/wallet")
	{
		wallet.POST("/init", rl("wallet_pairing"), walletHandler.Init)
		wallet.POST("/connect", rl("wallet_pairing"), walletHandler.Connect)
		wallet.GET("/status", rl("wallet_status"), walletHandler.Status)
	}

	// --- Wallet-authenticated routes ---
	auth := middleware.WalletAuth(deps.TokenSvc, deps.Wallet, deps.Logger)
	producers := middleware.RequireRole(domain.RoleAdmin, domain.RoleManufacturer)

	v1.POST("/wallet/disconnect", auth, walletHandler.Disconnect)

	signed := v1.Group("", auth)
	{
		signed.POST("/transactions", rl("transactions"), idem, txHandler.Execute)
		signed.POST("/transfers/hbar", rl("transactions"), idem, txHandler.TransferHBAR)
		signed.POST("/topics", rl("transactions"), idem, txHandler.CreateTopic)
		signed.POST("/topics/:topic_id/messages", rl("transactions"), idem, txHandler.SubmitMessage)

		signed.POST("/products/tokens", producers, rl("tokens"), idem, txHandler.CreateProductToken)
		signed.POST("/products/tokens/:token_id/mint", producers, rl("tokens"), idem, txHandler.MintProductNFT)
		signed.POST("/products/tokens/:token_id/transfer", rl("tokens"), idem, txHandler.TransferNFT)
		signed.POST("/products/:product_id/updates", rl("transactions"), idem, txHandler.RecordProductUpdate)

		signed.GET("/receipts", rl("receipts"), txHandler.ListReceipts)
	}

	return r
}
