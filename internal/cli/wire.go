package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"supplychain-wallet-gateway/config"
	"supplychain-wallet-gateway/internal/adapter/pairing/relay"
	fileStorage "supplychain-wallet-gateway/internal/adapter/storage/file"
	redisStorage "supplychain-wallet-gateway/internal/adapter/storage/redis"
	"supplychain-wallet-gateway/internal/core/ports"
	"supplychain-wallet-gateway/internal/service"
	"supplychain-wallet-gateway/pkg/logger"

	"github.com/spf13/cobra"
)

// app is the wallet session shared by the subcommands of one invocation.
type app struct {
	wallet  *service.WalletSessionClient
	out     io.Writer
	jsonOut bool

	closers []func() error
}

func (a *app) wire(cmd *cobra.Command, flags *rootFlags) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flags.storageDir != "" {
		cfg.Storage.FileDir = flags.storageDir
	}

	log := logger.NewWithWriter(cfg.Log.Level, cmd.ErrOrStderr())

	store, err := a.sessionStore(cmd.Context(), cfg, flags.storage)
	if err != nil {
		return err
	}

	var integration ports.PairingIntegration
	if cfg.Wallet.RelayURL != "" {
		client := relay.NewClient(cfg.Wallet.RelayURL, relay.Options{
			RequestTimeout: cfg.Wallet.RelayRequestTimeout,
		}, logger.Component(log, "relay"))
		integration = client
		a.closers = append(a.closers, client.Close)
	}

	a.wallet = service.NewWalletSessionClient(
		integration,
		store,
		service.ContextSelector{Fallback: service.NewPromptSelector(cmd.InOrStdin(), cmd.OutOrStdout())},
		service.WalletSessionConfigFrom(cfg.Wallet),
		logger.Component(log, "wallet"),
	)
	a.out = cmd.OutOrStdout()
	a.jsonOut = flags.jsonOutput
	return nil
}

func (a *app) sessionStore(ctx context.Context, cfg *config.Config, driver string) (ports.SessionStore, error) {
	var store ports.SessionStore
	switch driver {
	case "file":
		store = fileStorage.NewSessionStore(cfg.Storage.FileDir)
	case "redis":
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, logger.NewWithWriter("error", io.Discard))
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.closers = append(a.closers, rdb.Close)
		store = redisStorage.NewSessionStore(rdb, cfg.Storage.KeyPrefix)
	default:
		return nil, fmt.Errorf("unknown storage %q (want file or redis)", driver)
	}

	if cfg.Storage.Secret == "" {
		return store, nil
	}
	cipher, err := service.NewSessionCipher(cfg.Storage.Secret, cfg.Storage.Salt)
	if err != nil {
		return nil, fmt.Errorf("session cipher: %w", err)
	}
	return service.NewSealedStore(store, cipher), nil
}

func (a *app) close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

// print writes v as indented JSON with --json, otherwise as text.
func (a *app) print(v any, text string) error {
	if a.jsonOut {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintln(a.out, text)
	return err
}
