package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"supplychain-wallet-gateway/internal/adapter/http/middleware"
	"supplychain-wallet-gateway/internal/core/domain"
	"supplychain-wallet-gateway/internal/core/ports"
	"supplychain-wallet-gateway/internal/core/ports/mocks"
	"supplychain-wallet-gateway/internal/service"
	"supplychain-wallet-gateway/pkg/apperror"
	"supplychain-wallet-gateway/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Data       json.RawMessage `json:"data"`
	WalletMode string          `json:"wallet_mode"`
	ErrorCode  string          `json:"error_code"`
	RequestID  string          `json:"request_id"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func newTestContext(method, path string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	var raw []byte
	switch b := body.(type) {
	case nil:
	case string:
		raw = []byte(b)
	default:
		raw, _ = json.Marshal(b)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	if raw != nil {
		c.Request = httptest.NewRequest(method, path, bytes.NewReader(raw))
		c.Request.Header.Set("Content-Type", "application/json")
	} else {
		c.Request = httptest.NewRequest(method, path, nil)
	}
	return c, w
}

// counterValue reads one labelled counter from the recorder's registry.
func counterValue(t *testing.T, rec *metrics.Recorder, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := rec.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue next
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func simulatedReceipt(kind domain.TransactionKind) *domain.Receipt {
	return &domain.Receipt{
		Success:       true,
		TransactionID: "mock-tx-1",
		Status:        domain.ReceiptStatusSuccess,
		Kind:          kind,
		Simulated:     true,
		SubmittedAt:   time.Now().UTC(),
	}
}

// --- Wallet Handler Tests ---

func TestInit_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	wallet := mocks.NewMockWalletService(ctrl)
	rec := metrics.New()
	h := NewWalletHandler(wallet, mocks.NewMockTokenService(ctrl), rec, zerolog.Nop())

	wallet.EXPECT().Initialize(gomock.Any()).Return(&domain.InitResult{
		PairingString:  "mock-pairing-string-1",
		Topic:          "mock-topic",
		Mode:           domain.ModeSimulated,
		FallbackReason: "no pairing integration configured",
	}, nil)

	c, w := newTestContext(http.MethodPost, "/api/v1/wallet/init", nil)
	h.Init(c)

	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.Equal(t, "simulated", env.WalletMode)
	var res domain.InitResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, "mock-topic", res.Topic)
	assert.Equal(t, 1.0, counterValue(t, rec, "walletgw_simulated_fallbacks_total", map[string]string{"stage": "init"}))
}

func TestInit_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	wallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(wallet, mocks.NewMockTokenService(ctrl), nil, zerolog.Nop())

	wallet.EXPECT().Initialize(gomock.Any()).Return(nil, apperror.ErrWalletInitFailed(errors.New("relay down")))

	c, w := newTestContext(http.MethodPost, "/api/v1/wallet/init", nil)
	h.Init(c)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "WAL_003", decode(t, w).ErrorCode)
}

func TestConnect_PassesAccountChoice(t *testing.T) {
	ctrl := gomock.NewController(t)
	wallet := mocks.NewMockWalletService(ctrl)
	tokens := mocks.NewMockTokenService(ctrl)
	h := NewWalletHandler(wallet, tokens, nil, zerolog.Nop())

	expiry := time.Now().Add(time.Hour)
	wallet.EXPECT().Mode().Return(domain.ModeSimulated).Times(2)
	wallet.EXPECT().ConnectWallet(gomock.Any()).DoAndReturn(func(ctx context.Context) (*domain.ConnectResult, error) {
		choice, ok := service.AccountChoiceFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, "3", choice)
		return &domain.ConnectResult{AccountID: "0.0.3333", Mode: domain.ModeSimulated, Role: domain.RoleDistributor}, nil
	})
	tokens.EXPECT().Generate("0.0.3333", domain.RoleDistributor).Return("signed-token", expiry, nil)

	c, w := newTestContext(http.MethodPost, "/api/v1/wallet/connect", map[string]string{"account_choice": "3"})
	h.Connect(c)

	require.Equal(t, http.StatusOK, w.Code)
	var data map[string]any
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	assert.Equal(t, "0.0.3333", data["account_id"])
	assert.Equal(t, "distributor", data["role"])
	assert.Equal(t, "signed-token", data["token"])
	assert.Equal(t, float64(expiry.Unix()), data["expiry"])
}

func TestConnect_EmptyBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	wallet := mocks.NewMockWalletService(ctrl)
	tokens := mocks.NewMockTokenService(ctrl)
	h := NewWalletHandler(wallet, tokens, nil, zerolog.Nop())

	wallet.EXPECT().Mode().Return(domain.ModeReal).Times(2)
	wallet.EXPECT().ConnectWallet(gomock.Any()).DoAndReturn(func(ctx context.Context) (*domain.ConnectResult, error) {
		_, ok := service.AccountChoiceFromContext(ctx)
		assert.False(t, ok)
		return &domain.ConnectResult{AccountID: "0.0.4321", Mode: domain.ModeReal, Role: domain.RoleUser}, nil
	})
	tokens.EXPECT().Generate("0.0.4321", domain.RoleUser).Return("tok", time.Now(), nil)

	c, w := newTestContext(http.MethodPost, "/api/v1/wallet/connect", nil)
	h.Connect(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "real", decode(t, w).WalletMode)
}

func TestConnect_InvalidChoice(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewWalletHandler(mocks.NewMockWalletService(ctrl), mocks.NewMockTokenService(ctrl), nil, zerolog.Nop())

	c, w := newTestContext(http.MethodPost, "/api/v1/wallet/connect", `{"account_choice":"admin"}`)
	h.Connect(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "REQ_001", decode(t, w).ErrorCode)
}

func TestConnect_PairingTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	wallet := mocks.NewMockWalletService(ctrl)
	rec := metrics.New()
	h := NewWalletHandler(wallet, mocks.NewMockTokenService(ctrl), rec, zerolog.Nop())

	wallet.EXPECT().Mode().Return(domain.ModeReal).Times(2)
	wallet.EXPECT().ConnectWallet(gomock.Any()).Return(nil, apperror.ErrPairingTimeout())

	c, w := newTestContext(http.MethodPost, "/api/v1/wallet/connect", nil)
	h.Connect(c)

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, "WAL_004", decode(t, w).ErrorCode)
}

func TestConnect_FallbackCounted(t *testing.T) {
	ctrl := gomock.NewController(t)
	wallet := mocks.NewMockWalletService(ctrl)
	tokens := mocks.NewMockTokenService(ctrl)
	rec := metrics.New()
	h := NewWalletHandler(wallet, tokens, rec, zerolog.Nop())

	gomock.InOrder(
		wallet.EXPECT().Mode().Return(domain.ModeReal),
		wallet.EXPECT().ConnectWallet(gomock.Any()).Return(&domain.ConnectResult{AccountID: "0.0.1111", Mode: domain.ModeSimulated, Role: domain.RoleAdmin}, nil),
		wallet.EXPECT().Mode().Return(domain.ModeSimulated),
	)
	tokens.EXPECT().Generate("0.0.1111", domain.RoleAdmin).Return("tok", time.Now(), nil)

	c, w := newTestContext(http.MethodPost, "/api/v1/wallet/connect", nil)
	h.Connect(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, counterValue(t, rec, "walletgw_simulated_fallbacks_total", map[string]string{"stage": "connect"}))
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name        string
		session     domain.Session
		connected   bool
		wantRole    string
		wantPairing string
	}{
		{
			name:        "pending shows pairing string",
			session:     domain.Session{Topic: "t-1", PairingString: "pair-me"},
			wantPairing: "pair-me",
		},
		{
			name:      "connected hides pairing string",
			session:   domain.Session{Topic: "t-1", PairingString: "pair-me", AccountID: "0.0.2222", IsConnected: true},
			connected: true,
			wantRole:  "manufacturer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			wallet := mocks.NewMockWalletService(ctrl)
			h := NewWalletHandler(wallet, mocks.NewMockTokenService(ctrl), nil, zerolog.Nop())

			wallet.EXPECT().Session().Return(tt.session)
			wallet.EXPECT().IsWalletConnected().Return(tt.connected)
			wallet.EXPECT().State().Return(domain.StateRealPending)
			wallet.EXPECT().Mode().Return(domain.ModeReal)

			c, w := newTestContext(http.MethodGet, "/api/v1/wallet/status", nil)
			h.Status(c)

			require.Equal(t, http.StatusOK, w.Code)
			var data map[string]any
			require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
			assert.Equal(t, "real_pending", data["state"])
			assert.Equal(t, tt.connected, data["connected"])
			if tt.wantRole != "" {
				assert.Equal(t, tt.wantRole, data["role"])
			}
			if tt.wantPairing != "" {
				assert.Equal(t, tt.wantPairing, data["pairing_string"])
			} else {
				assert.NotContains(t, data, "pairing_string")
			}
		})
	}
}

func TestDisconnect(t *testing.T) {
	ctrl := gomock.NewController(t)
	wallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(wallet, mocks.NewMockTokenService(ctrl), nil, zerolog.Nop())

	wallet.EXPECT().Disconnect(gomock.Any()).Return(false)

	c, w := newTestContext(http.MethodPost, "/api/v1/wallet/disconnect", nil)
	h.Disconnect(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"disconnected":false}`, string(decode(t, w).Data))
}

// --- Transaction Handler Tests ---

func TestTransferHBAR_RecordsReceipt(t *testing.T) {
	ctrl := gomock.NewController(t)
	wallet := mocks.NewMockWalletService(ctrl)
	ledger := mocks.NewMockLedgerRepository(ctrl)
	rec := metrics.New()
	h := NewTransactionHandler(wallet, ledger, rec, zerolog.Nop())

	receipt := simulatedReceipt(domain.KindCryptoTransfer)
	wallet.EXPECT().TransferHBAR(gomock.Any(), "0.0.2222", 2.5).Return(receipt, nil)
	wallet.EXPECT().AccountID().Return("0.0.1111")
	ledger.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e *domain.LedgerEntry) error {
		assert.Equal(t, "0.0.1111", e.AccountID)
		assert.Equal(t, receipt.TransactionID, e.TransactionID)
		assert.Equal(t, domain.KindCryptoTransfer, e.Kind)
		assert.JSONEq(t, `{"to":"0.0.2222","amount":2.5}`, e.Details)
		return nil
	})

	c, w := newTestContext(http.MethodPost, "/api/v1/transfers/hbar", map[string]any{"to": "0.0.2222", "amount": 2.5})
	h.TransferHBAR(c)

	require.Equal(t, http.StatusCreated, w.Code)
	env := decode(t, w)
	assert.Equal(t, "simulated", env.WalletMode)
	var got domain.Receipt
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "mock-tx-1", got.TransactionID)
	assert.Equal(t, 1.0, counterValue(t, rec, "walletgw_transactions_total", map[string]string{"kind": "cryptoTransfer", "mode": "simulated", "outcome": "success"}))
}

func TestTransferHBAR_ValidationError(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "bad receiver", body: map[string]any{"to": "bob", "amount": 1}},
		{name: "zero amount", body: map[string]any{"to": "0.0.2222", "amount": 0}},
		{name: "amount beyond int64 tinybars", body: map[string]any{"to": "0.0.2222", "amount": 1e12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			h := NewTransactionHandler(mocks.NewMockWalletService(ctrl), nil, nil, zerolog.Nop())

			c, w := newTestContext(http.MethodPost, "/api/v1/transfers/hbar", tt.body)
			h.TransferHBAR(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "REQ_001", decode(t, w).ErrorCode)
		})
	}
}

func TestTransferHBAR_LedgerFailureIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	wallet := mocks.NewMockWalletService(ctrl)
	ledger := mocks.NewMockLedgerRepository(ctrl)
	h := NewTransactionHandler(wallet, ledger, nil, zerolog.Nop())

	wallet.EXPECT().TransferHBAR(gomock.Any(), "0.0.2222", 1.0).Return(simulatedReceipt(domain.KindCryptoTransfer), nil)
	wallet.EXPECT().AccountID().Return("0.0.1111")
	ledger.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	c, w := newTestContext(http.MethodPost, "/api/v1/transfers/hbar", map[string]any{"to": "0.0.2222", "amount": 1})
	h.TransferHBAR(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestExecute_NotConnected(t *testing.T) {
	ctrl := gomock.NewController(t)
	wallet := mocks.NewMockWalletService(ctrl)
	rec := metrics.New()
	h := NewTransactionHandler(wallet, nil, rec, zerolog.Nop())

	wallet.EXPECT().ExecuteTransaction(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrWalletNotConnected())
	wallet.EXPECT().Mode().Return(domain.ModeReal)

	c, w := newTestContext(http.MethodPost, "/api/v1/transactions", `{"type":"tokenMint","tokenId":"0.0.5"}`)
	h.Execute(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "WAL_001", decode(t, w).ErrorCode)
	assert.Equal(t, 1.0, counterValue(t, rec, "walletgw_transactions_total", map[string]string{"kind": "tokenMint", "mode": "real", "outcome": "failure"}))
}

func TestExecute_PassesRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	wallet := mocks.NewMockWalletService(ctrl)
	h := NewTransactionHandler(wallet, nil, nil, zerolog.Nop())

	want := domain.TransactionRequest{Kind: domain.KindConsensusMessageSubmit, TopicID: "0.0.900", Message: "hi"}
	wallet.EXPECT().ExecuteTransaction(gomock.Any(), want).Return(simulatedReceipt(want.Kind), nil)

	c, w := newTestContext(http.MethodPost, "/api/v1/transactions", want)
	h.Execute(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestSubmitMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want any
	}{
		{"string message", `{"message":"shipment left"}`, "shipment left"},
		{"object message", `{"message":{"temp":4}}`, json.RawMessage(`{"temp":4}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			wallet := mocks.NewMockWalletService(ctrl)
			h := NewTransactionHandler(wallet, nil, nil, zerolog.Nop())

			wallet.EXPECT().SubmitMessage(gomock.Any(), "0.0.900", tt.want).Return(simulatedReceipt(domain.KindConsensusMessageSubmit), nil)

			c, w := newTestContext(http.MethodPost, "/api/v1/topics/0.0.900/messages", tt.body)
			c.Params = gin.Params{{Key: "topic_id", Value: "0.0.900"}}
			h.SubmitMessage(c)

			assert.Equal(t, http.StatusCreated, w.Code)
		})
	}
}

func TestSubmitMessage_InvalidTopic(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewTransactionHandler(mocks.NewMockWalletService(ctrl), nil, nil, zerolog.Nop())

	c, w := newTestContext(http.MethodPost, "/", `{"message":"x"}`)
	c.Params = gin.Params{{Key: "topic_id", Value: "bad topic"}}
	h.SubmitMessage(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateTopic_Sanitizes(t *testing.T) {
	ctrl := gomock.NewController(t)
	wallet := mocks.NewMockWalletService(ctrl)
	h := NewTransactionHandler(wallet, nil, nil, zerolog.Nop())

	wallet.EXPECT().CreateTopic(gomock.Any(), "Batch 7", "&lt;b&gt;cold&lt;/b&gt;").Return(simulatedReceipt(domain.KindConsensusTopicCreate), nil)

	c, w := newTestContext(http.MethodPost, "/api/v1/topics", map[string]string{"name": " Batch 7 ", "description": "<b>cold</b>"})
	h.CreateTopic(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateProductToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	wallet := mocks.NewMockWalletService(ctrl)
	h := NewTransactionHandler(wallet, nil, nil, zerolog.Nop())

	wallet.EXPECT().CreateProductToken(gomock.Any(), domain.ProductToken{Name: "Coffee", SKU: "COF", Fungible: true, Quantity: 100}).
		Return(simulatedReceipt(domain.KindTokenCreate), nil)

	c, w := newTestContext(http.MethodPost, "/api/v1/products/tokens", map[string]any{"name": "Coffee", "sku": "COF", "fungible": true, "quantity": 100})
	h.CreateProductToken(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestMintProductNFT(t *testing.T) {
	ctrl := gomock.NewController(t)
	wallet := mocks.NewMockWalletService(ctrl)
	h := NewTransactionHandler(wallet, nil, nil, zerolog.Nop())

	wallet.EXPECT().MintProductNFT(gomock.Any(), "0.0.777", json.RawMessage(`{"serial":"A1"}`)).
		Return(simulatedReceipt(domain.KindTokenMint), nil)

	c, w := newTestContext(http.MethodPost, "/", `{"metadata":{"serial":"A1"}}`)
	c.Params = gin.Params{{Key: "token_id", Value: "0.0.777"}}
	h.MintProductNFT(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestTransferNFT(t *testing.T) {
	ctrl := gomock.NewController(t)
	wallet := mocks.NewMockWalletService(ctrl)
	h := NewTransactionHandler(wallet, nil, nil, zerolog.Nop())

	wallet.EXPECT().TransferNFT(gomock.Any(), "0.0.777", "0.0.3333").Return(simulatedReceipt(domain.KindTokenTransfer), nil)

	c, w := newTestContext(http.MethodPost, "/", map[string]string{"to": "0.0.3333"})
	c.Params = gin.Params{{Key: "token_id", Value: "0.0.777"}}
	h.TransferNFT(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRecordProductUpdate(t *testing.T) {
	ctrl := gomock.NewController(t)
	wallet := mocks.NewMockWalletService(ctrl)
	h := NewTransactionHandler(wallet, nil, nil, zerolog.Nop())

	wallet.EXPECT().RecordProductUpdate(gomock.Any(), "0.0.900", domain.ProductShippedToRetailer, map[string]any{"carrier": "DHL"}).
		Return(simulatedReceipt(domain.KindConsensusMessageSubmit), nil)

	c, w := newTestContext(http.MethodPost, "/", map[string]any{"status": 4, "data": map[string]any{"carrier": "DHL"}})
	c.Params = gin.Params{{Key: "product_id", Value: "0.0.900"}}
	h.RecordProductUpdate(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRecordProductUpdate_MissingStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewTransactionHandler(mocks.NewMockWalletService(ctrl), nil, nil, zerolog.Nop())

	c, w := newTestContext(http.MethodPost, "/", `{"data":{}}`)
	c.Params = gin.Params{{Key: "product_id", Value: "0.0.900"}}
	h.RecordProductUpdate(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListReceipts(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockLedgerRepository(ctrl)
	h := NewTransactionHandler(mocks.NewMockWalletService(ctrl), ledger, nil, zerolog.Nop())

	entry := *domain.NewLedgerEntry("0.0.1111", simulatedReceipt(domain.KindTokenMint), "{}")
	ledger.EXPECT().ListByAccount(gomock.Any(), "0.0.1111", 10).Return([]domain.LedgerEntry{entry}, nil)

	c, w := newTestContext(http.MethodGet, "/api/v1/receipts?limit=10", nil)
	c.Set(middleware.CtxAccountID, "0.0.1111")
	h.ListReceipts(c)

	require.Equal(t, http.StatusOK, w.Code)
	var data struct {
		Items []domain.LedgerEntry `json:"items"`
		Count int                  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	assert.Equal(t, 1, data.Count)
	assert.Equal(t, entry.TransactionID, data.Items[0].TransactionID)
}

func TestListReceipts_NoLedger(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewTransactionHandler(mocks.NewMockWalletService(ctrl), nil, nil, zerolog.Nop())

	c, w := newTestContext(http.MethodGet, "/api/v1/receipts", nil)
	c.Set(middleware.CtxAccountID, "0.0.1111")
	h.ListReceipts(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[],"count":0}`, string(decode(t, w).Data))
}

func TestListReceipts_DatabaseError(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockLedgerRepository(ctrl)
	h := NewTransactionHandler(mocks.NewMockWalletService(ctrl), ledger, nil, zerolog.Nop())

	ledger.EXPECT().ListByAccount(gomock.Any(), "0.0.1111", 50).Return(nil, errors.New("timeout"))

	c, w := newTestContext(http.MethodGet, "/api/v1/receipts", nil)
	c.Set(middleware.CtxAccountID, "0.0.1111")
	h.ListReceipts(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "SYS_001", decode(t, w).ErrorCode)
}

// --- Health ---

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Ping(context.Context) error { return s.err }
func (s stubChecker) Name() string               { return s.name }

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name       string
		checkers   []ports.HealthChecker
		wantCode   int
		wantStatus string
	}{
		{"all healthy", []ports.HealthChecker{stubChecker{name: "redis"}}, http.StatusOK, "healthy"},
		{"one down", []ports.HealthChecker{stubChecker{name: "redis"}, stubChecker{name: "postgresql", err: errors.New("refused")}}, http.StatusServiceUnavailable, "degraded"},
		{"no checkers", nil, http.StatusOK, "healthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(http.MethodGet, "/health", nil)
			HealthCheck(tt.checkers...)(c)

			assert.Equal(t, tt.wantCode, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body["status"])
		})
	}
}

func TestSwagger(t *testing.T) {
	c, w := newTestContext(http.MethodGet, "/swagger/spec", nil)
	SwaggerSpec(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/v1/wallet/connect")

	c, w = newTestContext(http.MethodGet, "/swagger", nil)
	SwaggerUI(c)
	assert.Contains(t, w.Body.String(), "swagger-ui")
}
