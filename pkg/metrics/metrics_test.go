package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Transaction(t *testing.T) {
	r := New()

	r.Transaction("cryptoTransfer", "simulated", nil)
	r.Transaction("cryptoTransfer", "simulated", nil)
	r.Transaction("tokenMint", "real", errors.New("rejected"))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.transactions.WithLabelValues("cryptoTransfer", "simulated", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.transactions.WithLabelValues("tokenMint", "real", "failure")))
}

func TestRecorder_ConnectAndFallback(t *testing.T) {
	r := New()

	r.Connect("real", nil)
	r.Connect("simulated", errors.New("timeout"))
	r.Fallback("init")
	r.Fallback("init")

	assert.Equal(t, 1.0, testutil.ToFloat64(r.connects.WithLabelValues("real", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.connects.WithLabelValues("simulated", "failure")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.fallbacks.WithLabelValues("init")))
}

func TestRecorder_ObserveHTTP(t *testing.T) {
	r := New()

	r.ObserveHTTP("POST", "/api/v1/transactions", 200, 15*time.Millisecond)
	r.ObserveHTTP("GET", "", 404, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.httpRequests.WithLabelValues("POST", "/api/v1/transactions", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.httpRequests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.httpDuration))
}

func TestRecorder_TrackSession(t *testing.T) {
	r := New()
	connected := false
	r.TrackSession(func() bool { return connected })

	expected := `
# HELP walletgw_wallet_connected 1 while a wallet account is connected.
# TYPE walletgw_wallet_connected gauge
walletgw_wallet_connected 0
`
	require.NoError(t, testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected), "walletgw_wallet_connected"))

	connected = true
	expected = strings.Replace(expected, "walletgw_wallet_connected 0", "walletgw_wallet_connected 1", 1)
	require.NoError(t, testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected), "walletgw_wallet_connected"))
}

func TestRecorder_Handler(t *testing.T) {
	r := New()
	r.Transaction("consensusMessageSubmit", "simulated", nil)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `walletgw_transactions_total{kind="consensusMessageSubmit",mode="simulated",outcome="success"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.Transaction("cryptoTransfer", "real", nil)
		r.Connect("real", nil)
		r.Fallback("connect")
		r.ObserveHTTP("GET", "/health", 200, time.Millisecond)
		r.TrackSession(func() bool { return true })
	})
}
