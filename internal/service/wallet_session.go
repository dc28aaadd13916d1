package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"supplychain-wallet-gateway/config"
	"supplychain-wallet-gateway/internal/core/domain"
	"supplychain-wallet-gateway/internal/core/ports"
	"supplychain-wallet-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultPairingTimeout = 60 * time.Second
	persistTimeout        = 5 * time.Second

	mockTopic = "mock-topic"
)

// WalletSessionConfig holds the settings fixed at construction.
type WalletSessionConfig struct {
	Network                string
	Debug                  bool
	Metadata               domain.AppMetadata
	PairingTimeout         time.Duration
	SimulatedDelay         time.Duration
	MockTxDelay            time.Duration
	AllowSimulatedFallback bool
}

// WalletSessionConfigFrom maps the wallet section of the loaded config.
func WalletSessionConfigFrom(w config.WalletConfig) WalletSessionConfig {
	return WalletSessionConfig{
		Network: w.Network,
		Debug:   w.Debug,
		Metadata: domain.AppMetadata{
			Name:        w.App.Name,
			Description: w.App.Description,
			Icon:        w.App.Icon,
		},
		PairingTimeout:         w.PairingTimeout,
		SimulatedDelay:         w.SimulatedDelay,
		MockTxDelay:            w.MockTxDelay,
		AllowSimulatedFallback: w.AllowSimulatedFallback,
	}
}

// WalletSessionClient implements ports.WalletService. It drives a real pairing
// integration and degrades to a simulated wallet when that integration fails.
// One client is built at startup and shared by every consumer.
type WalletSessionClient struct {
	integration ports.PairingIntegration
	store       ports.SessionStore
	selector    ports.AccountSelector
	cfg         WalletSessionConfig
	log         zerolog.Logger

	watchOnce sync.Once

	// mu guards session, mode and pending. It is never held across I/O.
	mu      sync.Mutex
	session domain.Session
	mode    domain.Mode
	pending *pendingConnection
}

// pendingConnection is the single outstanding connection attempt. Callers that
// arrive while it is open wait on done instead of starting their own attempt.
type pendingConnection struct {
	done      chan struct{}
	settled   bool
	accountID string
	err       error
}

// NewWalletSessionClient creates a client. integration may be nil, in which
// case Initialize always takes the simulated path.
func NewWalletSessionClient(
	integration ports.PairingIntegration,
	store ports.SessionStore,
	selector ports.AccountSelector,
	cfg WalletSessionConfig,
	log zerolog.Logger,
) *WalletSessionClient {
	if cfg.PairingTimeout <= 0 {
		cfg.PairingTimeout = defaultPairingTimeout
	}
	if cfg.Network == "" {
		cfg.Network = "testnet"
	}
	if selector == nil {
		selector = StaticSelector{}
	}
	return &WalletSessionClient{
		integration: integration,
		store:       store,
		selector:    selector,
		cfg:         cfg,
		log:         log,
		mode:        domain.ModeUninitialized,
	}
}

// Initialize starts a pairing session with the real integration. When that
// fails the client switches to the simulated wallet and still returns a
// result, unless simulated fallback is disabled.
func (c *WalletSessionClient) Initialize(ctx context.Context) (*domain.InitResult, error) {
	if c.integration == nil {
		return c.fallbackInit(ctx, errors.New("no pairing integration configured"))
	}

	data, err := c.integration.Init(ctx, c.cfg.Metadata, c.cfg.Network, c.cfg.Debug)
	if err != nil {
		return c.fallbackInit(ctx, err)
	}
	if data == nil || data.Topic == "" {
		return c.fallbackInit(ctx, errors.New("pairing integration returned no topic"))
	}

	c.watchOnce.Do(func() {
		if events := c.integration.Events(); events != nil {
			go c.watchEvents(events)
		}
	})

	c.mu.Lock()
	if c.mode == domain.ModeSimulated {
		c.session = domain.Session{}
	}
	c.mode = domain.ModeReal
	c.session.Topic = data.Topic
	c.session.UsesSimulatedWallet = false
	c.mu.Unlock()

	c.log.Info().Str("topic", data.Topic).Str("network", c.cfg.Network).Msg("pairing integration initialized")

	c.restoreRealSession(ctx)

	c.mu.Lock()
	pairingString := c.session.PairingString
	topic := c.session.Topic
	c.mu.Unlock()

	if pairingString == "" {
		pairingString, err = c.integration.GeneratePairingString(topic, c.cfg.Network, c.cfg.Debug)
		if err != nil {
			return c.fallbackInit(ctx, fmt.Errorf("generating pairing string: %w", err))
		}
		c.mu.Lock()
		c.session.PairingString = pairingString
		c.mu.Unlock()
	}

	return &domain.InitResult{
		PairingString: pairingString,
		Topic:         topic,
		Mode:          domain.ModeReal,
	}, nil
}

func (c *WalletSessionClient) fallbackInit(ctx context.Context, cause error) (*domain.InitResult, error) {
	if !c.cfg.AllowSimulatedFallback {
		c.log.Error().Err(cause).Msg("pairing integration initialization failed")
		return nil, apperror.ErrWalletInitFailed(cause)
	}

	c.log.Warn().Err(cause).Msg("pairing integration unavailable, switching to simulated wallet")

	c.mu.Lock()
	c.mode = domain.ModeSimulated
	c.session.UsesSimulatedWallet = true
	c.session.PairingString = fmt.Sprintf("mock-pairing-string-%d", time.Now().UnixMilli())
	c.session.Topic = mockTopic
	result := &domain.InitResult{
		PairingString:  c.session.PairingString,
		Topic:          c.session.Topic,
		Mode:           domain.ModeSimulated,
		FallbackReason: cause.Error(),
	}
	c.mu.Unlock()

	c.restoreSimulatedSession(ctx)

	return result, nil
}

// restoreRealSession loads pairing data saved by an earlier pairing. Data that
// cannot be parsed is discarded along with both storage keys.
func (c *WalletSessionClient) restoreRealSession(ctx context.Context) {
	raw, err := c.store.Get(ctx, domain.PairingStorageKey)
	if err != nil {
		c.log.Warn().Err(err).Msg("loading saved pairing failed, starting without one")
		return
	}
	if raw == nil {
		return
	}

	var data domain.PairingData
	if err := json.Unmarshal(raw, &data); err != nil {
		c.log.Warn().Err(err).Msg("saved pairing is corrupt, discarding it")
		c.mu.Lock()
		c.session.AccountID = ""
		c.session.IsConnected = false
		c.session.PairingString = ""
		c.mu.Unlock()
		c.removeStoredSessions(ctx)
		return
	}

	account := data.PrimaryAccount()

	c.mu.Lock()
	if data.Topic != "" {
		c.session.Topic = data.Topic
	}
	c.session.AccountID = account
	c.session.IsConnected = account != ""
	c.mu.Unlock()

	c.log.Info().Str("topic", data.Topic).Str("account_id", account).Msg("restored saved pairing")
}

func (c *WalletSessionClient) restoreSimulatedSession(ctx context.Context) {
	raw, err := c.store.Get(ctx, domain.SimulatedStorageKey)
	if err != nil {
		c.log.Warn().Err(err).Msg("loading saved simulated session failed")
		return
	}
	if raw == nil {
		return
	}

	var conn domain.SimulatedConnection
	if err := json.Unmarshal(raw, &conn); err != nil {
		c.log.Warn().Err(err).Msg("saved simulated session is corrupt, discarding it")
		if err := c.store.Delete(ctx, domain.SimulatedStorageKey); err != nil {
			c.log.Warn().Err(err).Msg("removing corrupt simulated session failed")
		}
		return
	}
	if !conn.IsConnected || conn.AccountID == "" {
		return
	}

	c.mu.Lock()
	c.session.AccountID = conn.AccountID
	c.session.IsConnected = true
	c.mu.Unlock()

	c.log.Info().Str("account_id", conn.AccountID).Msg("restored simulated session")
}

// ConnectWallet returns the connected account, pairing first if needed.
// A connected client answers immediately. While an attempt is in flight,
// further callers join it and receive its outcome.
func (c *WalletSessionClient) ConnectWallet(ctx context.Context) (*domain.ConnectResult, error) {
	c.mu.Lock()
	if c.session.Connected() {
		account := c.session.AccountID
		mode := c.mode
		c.mu.Unlock()
		c.log.Debug().Str("account_id", account).Msg("wallet already connected")
		return connectResult(account, mode), nil
	}
	if p := c.pending; p != nil {
		c.mu.Unlock()
		return c.await(ctx, p)
	}
	p := &pendingConnection{done: make(chan struct{})}
	c.pending = p
	mode := c.mode
	needInit := c.session.PairingString == "" || c.session.Topic == ""
	c.mu.Unlock()

	if mode != domain.ModeSimulated && needInit {
		if _, err := c.Initialize(ctx); err != nil {
			c.settle(p, "", err)
			return nil, err
		}
		c.mu.Lock()
		mode = c.mode
		if c.session.Connected() {
			c.settleLocked(p, c.session.AccountID, nil)
		}
		settled := p.settled
		c.mu.Unlock()
		if settled {
			return c.outcome(p)
		}
	}

	if mode == domain.ModeSimulated {
		return c.connectSimulated(ctx, p)
	}
	return c.connectReal(ctx, p)
}

func (c *WalletSessionClient) connectReal(ctx context.Context, p *pendingConnection) (*domain.ConnectResult, error) {
	c.mu.Lock()
	pairingString := c.session.PairingString
	c.mu.Unlock()

	if err := c.integration.ConnectToLocalWallet(ctx, pairingString); err != nil {
		if !c.cfg.AllowSimulatedFallback {
			c.log.Error().Err(err).Msg("prompting local wallet failed")
			c.settle(p, "", apperror.ErrWalletInitFailed(err))
			return c.outcome(p)
		}
		c.log.Warn().Err(err).Msg("prompting local wallet failed, switching to simulated wallet")
		if !c.enterSimulated(p) {
			return c.outcome(p)
		}
		return c.connectSimulated(ctx, p)
	}

	c.log.Info().Dur("timeout", c.cfg.PairingTimeout).Msg("waiting for wallet pairing")

	timer := time.NewTimer(c.cfg.PairingTimeout)
	defer timer.Stop()

	select {
	case <-p.done:
		return c.outcome(p)
	case <-ctx.Done():
		c.settle(p, "", ctx.Err())
		return c.outcome(p)
	case <-timer.C:
	}

	if !c.cfg.AllowSimulatedFallback {
		c.log.Error().Dur("timeout", c.cfg.PairingTimeout).Msg("wallet pairing timed out")
		c.settle(p, "", apperror.ErrPairingTimeout())
		return c.outcome(p)
	}

	c.log.Warn().Dur("timeout", c.cfg.PairingTimeout).Msg("wallet pairing timed out, switching to simulated wallet")
	if !c.enterSimulated(p) {
		return c.outcome(p)
	}
	return c.connectSimulated(ctx, p)
}

// enterSimulated switches the client into simulated mode for the rest of its
// life. It reports false when p was settled in the meantime.
func (c *WalletSessionClient) enterSimulated(p *pendingConnection) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p.settled {
		return false
	}
	c.mode = domain.ModeSimulated
	c.session.UsesSimulatedWallet = true
	return true
}

// connectSimulated waits the simulated latency, asks the selector for an
// account and persists the simulated session.
func (c *WalletSessionClient) connectSimulated(ctx context.Context, p *pendingConnection) (*domain.ConnectResult, error) {
	if err := sleepContext(ctx, c.cfg.SimulatedDelay); err != nil {
		c.settle(p, "", err)
		return c.outcome(p)
	}

	choice, err := c.selector.SelectAccount(ctx, domain.SimulatedAccounts)
	if err != nil {
		c.log.Warn().Err(err).Msg("account selection failed, using default account")
		choice = ""
	}
	account := pickSimulatedAccount(choice)

	c.mu.Lock()
	if p.settled {
		c.mu.Unlock()
		return c.outcome(p)
	}
	c.session.AccountID = account
	c.session.IsConnected = true
	c.session.UsesSimulatedWallet = true
	c.settleLocked(p, account, nil)
	c.mu.Unlock()

	c.persist(ctx, domain.SimulatedStorageKey, domain.SimulatedConnection{IsConnected: true, AccountID: account})

	c.log.Info().Str("account_id", account).Msg("connected to simulated wallet")
	return c.outcome(p)
}

// pickSimulatedAccount parses a 1-based choice. Blank means "1"; anything
// unparsable or out of range selects the first account.
func pickSimulatedAccount(choice string) string {
	choice = strings.TrimSpace(choice)
	if choice == "" {
		choice = "1"
	}
	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 1 || idx > len(domain.SimulatedAccounts) {
		return domain.SimulatedAccounts[0].ID
	}
	return domain.SimulatedAccounts[idx-1].ID
}

func (c *WalletSessionClient) await(ctx context.Context, p *pendingConnection) (*domain.ConnectResult, error) {
	select {
	case <-p.done:
		return c.outcome(p)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *WalletSessionClient) outcome(p *pendingConnection) (*domain.ConnectResult, error) {
	<-p.done
	if p.err != nil {
		return nil, p.err
	}
	return connectResult(p.accountID, c.Mode()), nil
}

func (c *WalletSessionClient) settle(p *pendingConnection, accountID string, err error) {
	c.mu.Lock()
	c.settleLocked(p, accountID, err)
	c.mu.Unlock()
}

func (c *WalletSessionClient) settleLocked(p *pendingConnection, accountID string, err error) {
	if p.settled {
		return
	}
	p.settled = true
	p.accountID = accountID
	p.err = err
	close(p.done)
	if c.pending == p {
		c.pending = nil
	}
}

func connectResult(accountID string, mode domain.Mode) *domain.ConnectResult {
	return &domain.ConnectResult{
		AccountID: accountID,
		Mode:      mode,
		Role:      domain.RoleForAccount(accountID),
	}
}

// watchEvents consumes integration events until the channel closes.
func (c *WalletSessionClient) watchEvents(events <-chan domain.WalletEvent) {
	for ev := range events {
		c.handleEvent(ev)
	}
	c.log.Debug().Msg("pairing event stream closed")
}

func (c *WalletSessionClient) handleEvent(ev domain.WalletEvent) {
	switch ev.Kind {
	case domain.EventExtensionFound:
		evt := c.log.Info()
		if ev.Extension != nil {
			evt = evt.Str("wallet", ev.Extension.Name)
		}
		evt.Msg("found wallet extension")
	case domain.EventConnectionStatus:
		c.log.Info().Str("status", ev.Status).Msg("wallet connection status changed")
	case domain.EventAcknowledge:
		if ev.Ack != nil {
			c.log.Debug().Str("topic", ev.Ack.Topic).Str("msg_id", ev.Ack.MsgID).Bool("result", ev.Ack.Result).Msg("wallet acknowledged message")
		}
	case domain.EventPairing:
		c.handlePairing(ev.Pairing)
	default:
		c.log.Debug().Str("kind", string(ev.Kind)).Msg("ignoring unknown wallet event")
	}
}

// handlePairing records a pairing acknowledgment. It settles the pending
// connection, if any, with the first paired account. Pairings are only
// accepted while a real session is initialized.
func (c *WalletSessionClient) handlePairing(data *domain.PairingData) {
	if data == nil {
		return
	}
	account := data.PrimaryAccount()
	if account == "" {
		c.log.Warn().Str("topic", data.Topic).Msg("pairing event carried no accounts")
		return
	}

	c.mu.Lock()
	if c.mode != domain.ModeReal {
		mode := c.mode
		c.mu.Unlock()
		c.log.Warn().Str("account_id", account).Str("mode", string(mode)).Msg("ignoring pairing received outside a real wallet session")
		return
	}
	// Stored before the pending connection settles and before a Disconnect
	// can remove it.
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	c.persist(ctx, domain.PairingStorageKey, data)

	c.session.AccountID = account
	c.session.IsConnected = true
	if p := c.pending; p != nil {
		c.settleLocked(p, account, nil)
	}
	c.mu.Unlock()

	c.log.Info().Str("account_id", account).Str("topic", data.Topic).Msg("wallet paired")
}

func (c *WalletSessionClient) persist(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		c.log.Error().Err(err).Str("key", key).Msg("encoding session for storage failed")
		return
	}
	if err := c.store.Set(ctx, key, raw); err != nil {
		c.log.Error().Err(err).Str("key", key).Msg("persisting session failed")
	}
}

func (c *WalletSessionClient) removeStoredSessions(ctx context.Context) {
	for _, key := range []string{domain.PairingStorageKey, domain.SimulatedStorageKey} {
		if err := c.store.Delete(ctx, key); err != nil {
			c.log.Warn().Err(err).Str("key", key).Msg("removing stored session failed")
		}
	}
}

// ExecuteTransaction hands req to the wallet for signing and submission.
// The simulated wallet always succeeds. On the real path a connected session
// is required, and provider failures fall back to a simulated receipt.
func (c *WalletSessionClient) ExecuteTransaction(ctx context.Context, req domain.TransactionRequest) (*domain.Receipt, error) {
	c.mu.Lock()
	mode := c.mode
	session := c.session
	c.mu.Unlock()

	if mode != domain.ModeSimulated && (session.AccountID == "" || session.Topic == "" || c.integration == nil) {
		return nil, apperror.ErrWalletNotConnected()
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.ErrInvalidTransaction(err.Error())
	}

	if mode == domain.ModeSimulated {
		return c.executeMock(ctx, req)
	}

	receipt, err := c.sendToProvider(ctx, session, req)
	if err != nil {
		if !c.cfg.AllowSimulatedFallback {
			c.log.Error().Err(err).Str("kind", string(req.Kind)).Msg("wallet submission failed")
			return nil, apperror.ErrSubmissionFailed(err)
		}
		c.log.Warn().Err(err).Str("kind", string(req.Kind)).Msg("wallet submission failed, using simulated receipt")
		return c.executeMock(ctx, req)
	}

	c.log.Info().Str("kind", string(req.Kind)).Str("tx_id", receipt.TransactionID).Str("status", string(receipt.Status)).Msg("transaction submitted")
	return receipt, nil
}

func (c *WalletSessionClient) sendToProvider(ctx context.Context, session domain.Session, req domain.TransactionRequest) (*domain.Receipt, error) {
	provider, err := c.integration.Provider(c.cfg.Network, session.Topic, session.AccountID)
	if err != nil {
		return nil, fmt.Errorf("getting provider: %w", err)
	}
	receipt, err := provider.SendTransaction(ctx, req)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, errors.New("provider returned no receipt")
	}
	if receipt.Kind == "" {
		receipt.Kind = req.Kind
	}
	if receipt.SubmittedAt.IsZero() {
		receipt.SubmittedAt = time.Now().UTC()
	}
	return receipt, nil
}

// executeMock fabricates a successful receipt after the configured delay.
func (c *WalletSessionClient) executeMock(ctx context.Context, req domain.TransactionRequest) (*domain.Receipt, error) {
	if err := sleepContext(ctx, c.cfg.MockTxDelay); err != nil {
		return nil, err
	}
	receipt := &domain.Receipt{
		Success:       true,
		TransactionID: "mock-tx-" + uuid.New().String(),
		Status:        domain.ReceiptStatusSuccess,
		Kind:          req.Kind,
		Simulated:     true,
		SubmittedAt:   time.Now().UTC(),
	}
	c.log.Info().Str("kind", string(req.Kind)).Str("tx_id", receipt.TransactionID).Msg("simulated transaction executed")
	return receipt, nil
}

// AccountID returns the connected account, or "" when not connected.
func (c *WalletSessionClient) AccountID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.AccountID
}

func (c *WalletSessionClient) IsWalletConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Connected()
}

func (c *WalletSessionClient) Mode() domain.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// State derives the lifecycle state from the mode and session.
func (c *WalletSessionClient) State() domain.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.mode {
	case domain.ModeSimulated:
		return domain.StateSimulated
	case domain.ModeReal:
		if c.session.Connected() {
			return domain.StateRealConnected
		}
		return domain.StateRealPending
	default:
		return domain.StateUninitialized
	}
}

// Session returns a copy of the current session.
func (c *WalletSessionClient) Session() domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Disconnect tears down the real channel when one is open, then clears the
// session and both storage keys. It reports false only when the teardown
// call failed.
func (c *WalletSessionClient) Disconnect(ctx context.Context) bool {
	c.mu.Lock()
	topic := c.session.Topic
	mode := c.mode
	c.mu.Unlock()

	ok := true
	if topic != "" && mode == domain.ModeReal && c.integration != nil {
		if err := c.integration.Disconnect(ctx, topic); err != nil {
			c.log.Error().Err(err).Str("topic", topic).Msg("wallet teardown failed")
			ok = false
		}
	}

	c.mu.Lock()
	c.session = domain.Session{}
	c.mode = domain.ModeUninitialized
	if p := c.pending; p != nil {
		c.settleLocked(p, "", apperror.ErrDisconnected())
	}
	c.mu.Unlock()

	c.removeStoredSessions(ctx)

	c.log.Info().Bool("teardown_ok", ok).Msg("wallet disconnected")
	return ok
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
