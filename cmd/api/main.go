package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"supplychain-wallet-gateway/config"
	httpHandler "supplychain-wallet-gateway/internal/adapter/http/handler"
	"supplychain-wallet-gateway/internal/adapter/pairing/relay"
	fileStorage "supplychain-wallet-gateway/internal/adapter/storage/file"
	pgStorage "supplychain-wallet-gateway/internal/adapter/storage/postgres"
	redisStorage "supplychain-wallet-gateway/internal/adapter/storage/redis"
	"supplychain-wallet-gateway/internal/core/ports"
	"supplychain-wallet-gateway/internal/service"
	"supplychain-wallet-gateway/pkg/logger"
	"supplychain-wallet-gateway/pkg/metrics"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("network", cfg.Wallet.Network).
		Msg("Starting Supply Chain Wallet Gateway")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("jwt.secret must be set (WALLETGW_JWT_SECRET)")
	}

	ctx := context.Background()

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	healthCheckers := []ports.HealthChecker{redisStorage.NewHealthCheck(rdb)}

	// Receipt ledger (optional)
	var ledger ports.LedgerRepository
	if cfg.Database.Enabled {
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err == nil {
			err = pgStorage.EnsureSchema(ctx, pool)
			if err != nil {
				pool.Close()
			}
		}
		if err != nil {
			log.Warn().Err(err).Msg("PostgreSQL unavailable, receipts will not be recorded")
		} else {
			defer pool.Close()
			ledger = pgStorage.NewReceiptRepo(pool)
			healthCheckers = append(healthCheckers, pgStorage.NewHealthCheck(pool))
			log.Info().Msg("PostgreSQL connected")
		}
	}

	// Pairing state storage
	store, err := newSessionStore(cfg, rdb)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize session storage")
	}

	// Pairing integration (optional)
	var integration ports.PairingIntegration
	if cfg.Wallet.RelayURL != "" {
		client := relay.NewClient(cfg.Wallet.RelayURL, relay.Options{
			RequestTimeout: cfg.Wallet.RelayRequestTimeout,
		}, logger.Component(log, "relay"))
		defer client.Close()
		integration = client
		healthCheckers = append(healthCheckers, client)
	} else {
		log.Warn().Msg("No pairing relay configured, the simulated wallet will be used")
	}

	wallet := service.NewWalletSessionClient(
		integration,
		store,
		service.ContextSelector{Fallback: service.StaticSelector{Choice: cfg.Wallet.SimulatedAccount}},
		service.WalletSessionConfigFrom(cfg.Wallet),
		logger.Component(log, "wallet"),
	)

	startWalletSession(context.Background(), wallet, cfg.Wallet.PairingTimeout, log)

	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	var rec *metrics.Recorder
	if cfg.Metrics.Enabled {
		rec = metrics.New()
		rec.TrackSession(wallet.IsWalletConnected)
	}

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		Wallet:          wallet,
		TokenSvc:        tokenSvc,
		Ledger:          ledger,
		SubmissionGuard: redisStorage.NewSubmissionGuard(rdb, cfg.Storage.KeyPrefix),
		RateLimitStore:  redisStorage.NewRateLimitStore(rdb, cfg.Storage.KeyPrefix),
		Metrics:         rec,
		MetricsPath:     cfg.Metrics.Path,
		HealthCheckers:  healthCheckers,
		Logger:          log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// The pairing is kept in storage so the next start restores it.
	log.Info().Str("account_id", wallet.AccountID()).Msg("Server exited")
}

func newSessionStore(cfg *config.Config, rdb *goredis.Client) (ports.SessionStore, error) {
	var store ports.SessionStore
	switch cfg.Storage.Driver {
	case "redis":
		store = redisStorage.NewSessionStore(rdb, cfg.Storage.KeyPrefix)
	case "file":
		store = fileStorage.NewSessionStore(cfg.Storage.FileDir)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	if cfg.Storage.Secret == "" {
		return store, nil
	}
	cipher, err := service.NewSessionCipher(cfg.Storage.Secret, cfg.Storage.Salt)
	if err != nil {
		return nil, err
	}
	return service.NewSealedStore(store, cipher), nil
}

// startWalletSession initializes the shared session once at startup so a
// pairing saved by a previous run is restored before the first request.
// A failure is logged and left to the lazy initialization in ConnectWallet.
func startWalletSession(ctx context.Context, wallet ports.WalletService, timeout time.Duration, log zerolog.Logger) {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	initCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := wallet.Initialize(initCtx)
	if err != nil {
		log.Error().Err(err).Msg("Wallet session initialization failed, retrying on first connect")
		return
	}

	evt := log.Info()
	if res.FallbackReason != "" {
		evt = log.Warn().Str("fallback_reason", res.FallbackReason)
	}
	evt = evt.Str("mode", string(res.Mode)).Str("topic", res.Topic)
	if wallet.IsWalletConnected() {
		evt = evt.Str("account_id", wallet.AccountID())
	}
	evt.Msg("Wallet session initialized")
}
