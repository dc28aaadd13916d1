package relay

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"supplychain-wallet-gateway/internal/core/domain"
	"supplychain-wallet-gateway/internal/core/ports"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	defaultRequestTimeout = 2 * time.Minute
	defaultDialTimeout    = 10 * time.Second
	eventBuffer           = 16
)

var (
	// ErrClosed is returned by calls made after Close.
	ErrClosed = errors.New("relay client closed")
	// ErrConnectionLost is returned to requests in flight when the socket drops.
	ErrConnectionLost = errors.New("relay connection lost")
)

// Options tunes a Client. Zero values take defaults.
type Options struct {
	RequestTimeout time.Duration
	DialTimeout    time.Duration
	Header         http.Header
}

// Client implements ports.PairingIntegration over a websocket pairing relay.
// The socket is dialed lazily and redialed after it drops.
type Client struct {
	url    string
	opts   Options
	dialer *websocket.Dialer
	log    zerolog.Logger

	// connMu guards conn and the closed check that precedes every dial.
	connMu sync.Mutex
	conn   *websocket.Conn

	writeMu sync.Mutex

	mu       sync.Mutex
	waiters  map[string]waiter
	metadata domain.AppMetadata

	events    chan domain.WalletEvent
	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

type waiter struct {
	ch   chan frame
	conn *websocket.Conn
}

var _ ports.PairingIntegration = (*Client)(nil)

// NewClient creates a relay client for url (ws:// or wss://).
func NewClient(url string, opts Options, log zerolog.Logger) *Client {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = defaultDialTimeout
	}
	return &Client{
		url:  url,
		opts: opts,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: opts.DialTimeout,
		},
		log:     log,
		waiters: make(map[string]waiter),
		events:  make(chan domain.WalletEvent, eventBuffer),
		closed:  make(chan struct{}),
	}
}

// Init opens the relay channel and returns its topic.
func (c *Client) Init(ctx context.Context, metadata domain.AppMetadata, network string, debug bool) (*domain.InitData, error) {
	c.mu.Lock()
	c.metadata = metadata
	c.mu.Unlock()

	var data domain.InitData
	if err := c.request(ctx, frameInit, "", initPayload{Metadata: metadata, Network: network, Debug: debug}, &data); err != nil {
		return nil, fmt.Errorf("relay init: %w", err)
	}
	if data.Topic == "" {
		return nil, errors.New("relay init: empty topic")
	}
	return &data, nil
}

// GeneratePairingString encodes the connection offer as base64 JSON.
func (c *Client) GeneratePairingString(topic, network string, debug bool) (string, error) {
	if topic == "" {
		return "", errors.New("pairing string needs a topic")
	}
	c.mu.Lock()
	meta := c.metadata
	c.mu.Unlock()

	raw, err := json.Marshal(pairingOffer{
		Topic:    topic,
		Network:  network,
		Relay:    c.url,
		Metadata: meta,
		Debug:    debug,
	})
	if err != nil {
		return "", fmt.Errorf("encoding pairing offer: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// ConnectToLocalWallet asks the relay to prompt the user's wallet.
func (c *Client) ConnectToLocalWallet(ctx context.Context, pairingString string) error {
	if err := c.request(ctx, frameConnectLocal, "", connectPayload{PairingString: pairingString}, nil); err != nil {
		return fmt.Errorf("relay connect: %w", err)
	}
	return nil
}

// Provider returns a signer bound to accountID on topic.
func (c *Client) Provider(network, topic, accountID string) (ports.Provider, error) {
	if topic == "" || accountID == "" {
		return nil, errors.New("provider needs a topic and an account")
	}
	return &Provider{client: c, network: network, topic: topic, accountID: accountID}, nil
}

func (c *Client) Disconnect(ctx context.Context, topic string) error {
	if err := c.request(ctx, frameDisconnect, topic, nil, nil); err != nil {
		return fmt.Errorf("relay disconnect: %w", err)
	}
	return nil
}

// Events is closed by Close.
func (c *Client) Events() <-chan domain.WalletEvent {
	return c.events
}

// Ping implements ports.HealthChecker. It dials if no socket is open.
func (c *Client) Ping(ctx context.Context) error {
	conn, err := c.connection(ctx)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	deadline := time.Now().Add(5 * time.Second)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	return conn.WriteControl(websocket.PingMessage, nil, deadline)
}

func (c *Client) Name() string {
	return "pairing_relay"
}

// Close shuts the socket, waits for the reader and closes Events.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.connMu.Lock()
		close(c.closed)
		conn := c.conn
		c.conn = nil
		c.connMu.Unlock()

		if conn != nil {
			c.writeMu.Lock()
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			c.writeMu.Unlock()
			err = conn.Close()
		}
		c.wg.Wait()
		close(c.events)
	})
	return err
}

func (c *Client) connection(ctx context.Context) (*websocket.Conn, error) {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	select {
	case <-c.closed:
		return nil, ErrClosed
	default:
	}
	if c.conn != nil {
		return c.conn, nil
	}

	conn, _, err := c.dialer.DialContext(ctx, c.url, c.opts.Header)
	if err != nil {
		return nil, fmt.Errorf("dialing relay: %w", err)
	}
	c.conn = conn
	c.wg.Add(1)
	go c.readLoop(conn)

	c.log.Info().Str("url", c.url).Msg("pairing relay connected")
	return conn, nil
}

func (c *Client) request(ctx context.Context, typ, topic string, payload any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.opts.RequestTimeout)
	defer cancel()

	conn, err := c.connection(ctx)
	if err != nil {
		return err
	}

	f := frame{Type: typ, ID: uuid.New().String(), Topic: topic}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", typ, err)
		}
		f.Payload = raw
	}

	ch := make(chan frame, 1)
	c.mu.Lock()
	c.waiters[f.ID] = waiter{ch: ch, conn: conn}
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.waiters, f.ID)
		c.mu.Unlock()
	}()

	c.writeMu.Lock()
	if d, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(d)
	}
	err = conn.WriteJSON(f)
	c.writeMu.Unlock()
	if err != nil {
		return fmt.Errorf("writing %s: %w", typ, err)
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			return ErrConnectionLost
		}
		if resp.Error != "" {
			return errors.New(resp.Error)
		}
		if out != nil && len(resp.Payload) > 0 {
			if err := json.Unmarshal(resp.Payload, out); err != nil {
				return fmt.Errorf("decoding %s result: %w", typ, err)
			}
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-c.closed:
		return ErrClosed
	}
}

func (c *Client) readLoop(conn *websocket.Conn) {
	defer c.wg.Done()

	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			c.dropConnection(conn, err)
			return
		}

		if f.ID != "" {
			c.deliver(f)
			continue
		}

		ev, ok := toEvent(f)
		if !ok {
			if f.Error != "" {
				c.log.Warn().Str("error", f.Error).Msg("relay reported an error")
			} else {
				c.log.Debug().Str("type", f.Type).Msg("ignoring relay frame")
			}
			continue
		}
		if !c.emit(ev) {
			return
		}
	}
}

func (c *Client) deliver(f frame) {
	c.mu.Lock()
	w, ok := c.waiters[f.ID]
	c.mu.Unlock()
	if !ok {
		c.log.Debug().Str("id", f.ID).Msg("result for unknown request")
		return
	}
	select {
	case w.ch <- f:
	default:
	}
}

// emit reports false once the client is closing.
func (c *Client) emit(ev domain.WalletEvent) bool {
	select {
	case c.events <- ev:
		return true
	case <-c.closed:
		return false
	}
}

func (c *Client) dropConnection(conn *websocket.Conn, cause error) {
	c.connMu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.connMu.Unlock()
	_ = conn.Close()

	c.mu.Lock()
	for id, w := range c.waiters {
		if w.conn == conn {
			close(w.ch)
			delete(c.waiters, id)
		}
	}
	c.mu.Unlock()

	select {
	case <-c.closed:
		return
	default:
	}

	c.log.Warn().Err(cause).Msg("pairing relay connection lost")
	c.emit(domain.WalletEvent{Kind: domain.EventConnectionStatus, Status: StatusRelayDisconnected})
}
