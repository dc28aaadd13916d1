package handler

import (
	"supplychain-wallet-gateway/internal/adapter/http/dto"
	"supplychain-wallet-gateway/internal/core/domain"
	"supplychain-wallet-gateway/internal/core/ports"
	"supplychain-wallet-gateway/internal/service"
	"supplychain-wallet-gateway/pkg/apperror"
	"supplychain-wallet-gateway/pkg/metrics"
	"supplychain-wallet-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// WalletHandler exposes the shared wallet session lifecycle.
type WalletHandler struct {
	wallet  ports.WalletService
	tokens  ports.TokenService
	metrics *metrics.Recorder
	log     zerolog.Logger
}

func NewWalletHandler(wallet ports.WalletService, tokens ports.TokenService, rec *metrics.Recorder, log zerolog.Logger) *WalletHandler {
	return &WalletHandler{
		wallet:  wallet,
		tokens:  tokens,
		metrics: rec,
		log:     log,
	}
}

// Init handles POST /api/v1/wallet/init.
func (h *WalletHandler) Init(c *gin.Context) {
	res, err := h.wallet.Initialize(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if res.FallbackReason != "" {
		h.metrics.Fallback("init")
	}
	response.OKWithMode(c, string(res.Mode), res)
}

// Connect handles POST /api/v1/wallet/connect. The body is optional; its
// account_choice only matters to the simulated wallet.
func (h *WalletHandler) Connect(c *gin.Context) {
	var req dto.ConnectRequest
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, apperror.ErrInvalidRequest(err.Error()))
			return
		}
	}

	ctx := c.Request.Context()
	if req.AccountChoice != "" {
		ctx = service.WithAccountChoice(ctx, req.AccountChoice)
	}

	modeBefore := h.wallet.Mode()
	res, err := h.wallet.ConnectWallet(ctx)
	h.metrics.Connect(string(h.wallet.Mode()), err)
	if err != nil {
		response.Error(c, err)
		return
	}
	if modeBefore == domain.ModeReal && res.Mode == domain.ModeSimulated {
		h.metrics.Fallback("connect")
	}

	token, expiry, err := h.tokens.Generate(res.AccountID, res.Role)
	if err != nil {
		h.log.Error().Err(err).Str("account_id", res.AccountID).Msg("failed to issue wallet token")
		response.Error(c, apperror.InternalError(err))
		return
	}

	response.OKWithMode(c, string(res.Mode), dto.ConnectResponse{
		AccountID: res.AccountID,
		Mode:      string(res.Mode),
		Role:      string(res.Role),
		Token:     token,
		Expiry:    expiry.Unix(),
	})
}

// Status handles GET /api/v1/wallet/status. The pairing string is only shown
// while no account is connected.
func (h *WalletHandler) Status(c *gin.Context) {
	session := h.wallet.Session()
	connected := h.wallet.IsWalletConnected()

	resp := dto.StatusResponse{
		State:     string(h.wallet.State()),
		Mode:      string(h.wallet.Mode()),
		Connected: connected,
		AccountID: session.AccountID,
		Topic:     session.Topic,
	}
	if session.AccountID != "" {
		resp.Role = string(domain.RoleForAccount(session.AccountID))
	}
	if !connected {
		resp.PairingString = session.PairingString
	}
	response.OKWithMode(c, resp.Mode, resp)
}

// Disconnect handles POST /api/v1/wallet/disconnect.
func (h *WalletHandler) Disconnect(c *gin.Context) {
	ok := h.wallet.Disconnect(c.Request.Context())
	response.OK(c, gin.H{"disconnected": ok})
}
