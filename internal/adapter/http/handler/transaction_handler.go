package handler

import (
	"context"
	"encoding/json"
	"strconv"

	"supplychain-wallet-gateway/internal/adapter/http/dto"
	"supplychain-wallet-gateway/internal/adapter/http/middleware"
	"supplychain-wallet-gateway/internal/core/domain"
	"supplychain-wallet-gateway/internal/core/ports"
	"supplychain-wallet-gateway/pkg/apperror"
	"supplychain-wallet-gateway/pkg/metrics"
	"supplychain-wallet-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// TransactionHandler submits transactions through the connected wallet and
// records the receipts.
type TransactionHandler struct {
	wallet  ports.WalletService
	ledger  ports.LedgerRepository // nil = no receipt ledger
	metrics *metrics.Recorder
	log     zerolog.Logger
}

func NewTransactionHandler(wallet ports.WalletService, ledger ports.LedgerRepository, rec *metrics.Recorder, log zerolog.Logger) *TransactionHandler {
	return &TransactionHandler{
		wallet:  wallet,
		ledger:  ledger,
		metrics: rec,
		log:     log,
	}
}

// Execute handles POST /api/v1/transactions with a raw transaction request.
func (h *TransactionHandler) Execute(c *gin.Context) {
	var req domain.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidRequest(err.Error()))
		return
	}

	h.submit(c, req.Kind, req, func(ctx context.Context) (*domain.Receipt, error) {
		return h.wallet.ExecuteTransaction(ctx, req)
	})
}

// TransferHBAR handles POST /api/v1/transfers/hbar.
func (h *TransactionHandler) TransferHBAR(c *gin.Context) {
	var req dto.TransferHbarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidRequest(err.Error()))
		return
	}

	h.submit(c, domain.KindCryptoTransfer, req, func(ctx context.Context) (*domain.Receipt, error) {
		return h.wallet.TransferHBAR(ctx, req.To, req.Amount)
	})
}

// CreateTopic handles POST /api/v1/topics.
func (h *TransactionHandler) CreateTopic(c *gin.Context) {
	var req dto.CreateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidRequest(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	h.submit(c, domain.KindConsensusTopicCreate, req, func(ctx context.Context) (*domain.Receipt, error) {
		return h.wallet.CreateTopic(ctx, req.Name, req.Description)
	})
}

// SubmitMessage handles POST /api/v1/topics/:topic_id/messages.
func (h *TransactionHandler) SubmitMessage(c *gin.Context) {
	topicID, ok := pathID(c, "topic_id")
	if !ok {
		return
	}
	var req dto.SubmitMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidRequest(err.Error()))
		return
	}

	details := gin.H{"topic_id": topicID, "message": req.Message}
	h.submit(c, domain.KindConsensusMessageSubmit, details, func(ctx context.Context) (*domain.Receipt, error) {
		return h.wallet.SubmitMessage(ctx, topicID, dto.MessageValue(req.Message))
	})
}

// CreateProductToken handles POST /api/v1/products/tokens.
func (h *TransactionHandler) CreateProductToken(c *gin.Context) {
	var req dto.CreateProductTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidRequest(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	product := domain.ProductToken{
		Name:     req.Name,
		SKU:      req.SKU,
		Fungible: req.Fungible,
		Quantity: req.Quantity,
	}
	h.submit(c, domain.KindTokenCreate, product, func(ctx context.Context) (*domain.Receipt, error) {
		return h.wallet.CreateProductToken(ctx, product)
	})
}

// MintProductNFT handles POST /api/v1/products/tokens/:token_id/mint.
func (h *TransactionHandler) MintProductNFT(c *gin.Context) {
	tokenID, ok := pathID(c, "token_id")
	if !ok {
		return
	}
	var req dto.MintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidRequest(err.Error()))
		return
	}

	details := gin.H{"token_id": tokenID, "metadata": req.Metadata}
	h.submit(c, domain.KindTokenMint, details, func(ctx context.Context) (*domain.Receipt, error) {
		return h.wallet.MintProductNFT(ctx, tokenID, req.Metadata)
	})
}

// TransferNFT handles POST /api/v1/products/tokens/:token_id/transfer.
func (h *TransactionHandler) TransferNFT(c *gin.Context) {
	tokenID, ok := pathID(c, "token_id")
	if !ok {
		return
	}
	var req dto.TransferNFTRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidRequest(err.Error()))
		return
	}

	details := gin.H{"token_id": tokenID, "to": req.To}
	h.submit(c, domain.KindTokenTransfer, details, func(ctx context.Context) (*domain.Receipt, error) {
		return h.wallet.TransferNFT(ctx, tokenID, req.To)
	})
}

// RecordProductUpdate handles POST /api/v1/products/:product_id/updates.
func (h *TransactionHandler) RecordProductUpdate(c *gin.Context) {
	productID, ok := pathID(c, "product_id")
	if !ok {
		return
	}
	var req dto.ProductUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidRequest(err.Error()))
		return
	}

	status := domain.ProductStatus(*req.Status)
	details := gin.H{"product_id": productID, "status": status.String(), "data": req.Data}
	h.submit(c, domain.KindConsensusMessageSubmit, details, func(ctx context.Context) (*domain.Receipt, error) {
		return h.wallet.RecordProductUpdate(ctx, productID, status, req.Data)
	})
}

// ListReceipts handles GET /api/v1/receipts for the authenticated account.
func (h *TransactionHandler) ListReceipts(c *gin.Context) {
	accountID := c.GetString(middleware.CtxAccountID)
	if accountID == "" {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	if h.ledger == nil {
		response.OK(c, dto.ReceiptListResponse{Items: []domain.LedgerEntry{}})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	entries, err := h.ledger.ListByAccount(c.Request.Context(), accountID, limit)
	if err != nil {
		h.log.Error().Err(err).Str("account_id", accountID).Msg("failed to list receipts")
		response.Error(c, apperror.ErrDatabaseError(err))
		return
	}
	response.OK(c, dto.ReceiptListResponse{Items: entries, Count: len(entries)})
}

func (h *TransactionHandler) submit(c *gin.Context, kind domain.TransactionKind, details any, run func(context.Context) (*domain.Receipt, error)) {
	ctx := c.Request.Context()

	receipt, err := run(ctx)
	if err != nil {
		h.metrics.Transaction(string(kind), string(h.wallet.Mode()), err)
		response.Error(c, err)
		return
	}

	mode := receiptMode(receipt)
	h.metrics.Transaction(string(kind), mode, nil)
	h.record(ctx, receipt, details)
	response.CreatedWithMode(c, mode, receipt)
}

// record stores the receipt in the ledger. Failures are logged, never
// returned: the transaction has already been submitted.
func (h *TransactionHandler) record(ctx context.Context, receipt *domain.Receipt, details any) {
	if h.ledger == nil {
		return
	}
	raw, err := json.Marshal(details)
	if err != nil {
		raw = nil
	}
	entry := domain.NewLedgerEntry(h.wallet.AccountID(), receipt, string(raw))
	if err := h.ledger.Create(ctx, entry); err != nil {
		h.log.Warn().Err(err).Str("transaction_id", receipt.TransactionID).Msg("failed to record receipt")
	}
}

func receiptMode(r *domain.Receipt) string {
	if r.Simulated {
		return string(domain.ModeSimulated)
	}
	return string(domain.ModeReal)
}

func pathID(c *gin.Context, name string) (string, bool) {
	id := c.Param(name)
	if !dto.IsSafeID(id) {
		response.Error(c, apperror.ErrInvalidRequest("invalid "+name))
		return "", false
	}
	return id, true
}
