package handler

import (
	"context"

	"multicurrency-wallet/internal/adapter/http/dto"
	"multicurrency-wallet/internal/core/ports"
	"multicurrency-wallet/pkg/apperror"
	"multicurrency-wallet/pkg/money"
	"multicurrency-wallet/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WalletHandler handles wallet endpoints.
type WalletHandler struct {
	svc ports.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(svc ports.WalletService) *WalletHandler {
	return &WalletHandler{svc: svc}
}

// Create handles POST /api/wallets.
func (h *WalletHandler) Create(c *gin.Context) {
	var req dto.CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}
	currency, err := money.ParseCurrency(req.Currency)
	if err != nil {
		response.Error(c, apperror.ErrInvalidCurrency(req.Currency))
		return
	}

	w, err := h.svc.CreateWallet(c.Request.Context(), currency)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toWalletResponse(w))
}

// List handles GET /api/wallets.
func (h *WalletHandler) List(c *gin.Context) {
	ws, err := h.svc.ListWallets(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toWalletResponses(ws))
}

// Get handles GET /api/wallets/:id.
func (h *WalletHandler) Get(c *gin.Context) {
	id, ok := walletID(c)
	if !ok {
		return
	}
	w, err := h.svc.GetWallet(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toWalletResponse(w))
}

// Transactions handles GET /api/wallets/:id/transactions. Entries are
// ordered oldest first.
func (h *WalletHandler) Transactions(c *gin.Context) {
	id, ok := walletID(c)
	if !ok {
		return
	}
	txs, err := h.svc.ListTransactions(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toTransactionResponses(txs))
}

// Deposit handles POST /api/wallets/:id/deposit.
func (h *WalletHandler) Deposit(c *gin.Context) {
	h.movement(c, h.svc.Deposit)
}

// Withdraw handles POST /api/wallets/:id/withdraw.
func (h *WalletHandler) Withdraw(c *gin.Context) {
	h.movement(c, h.svc.Withdraw)
}

type movementFunc func(context.Context, ports.MovementRequest) (*ports.OperationResult, error)

func (h *WalletHandler) movement(c *gin.Context, op movementFunc) {
	id, ok := walletID(c)
	if !ok {
		return
	}
	var req dto.MovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}
	currency, err := money.ParseCurrency(req.Currency)
	if err != nil {
		response.Error(c, apperror.ErrInvalidCurrency(req.Currency))
		return
	}

	res, err := op(c.Request.Context(), ports.MovementRequest{
		WalletID: id,
		Amount:   string(req.Amount),
		Currency: currency,
	})
	respondOperation(c, res, err)
}

// Exchange handles POST /api/wallets/exchange.
func (h *WalletHandler) Exchange(c *gin.Context) {
	var req dto.ExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}
	// Both ids passed the uuid validator.
	src := uuid.MustParse(req.SourceWalletID)
	tgt := uuid.MustParse(req.TargetWalletID)

	res, err := h.svc.Exchange(c.Request.Context(), ports.ExchangeRequest{
		SourceWalletID: src,
		TargetWalletID: tgt,
		Amount:         string(req.Amount),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	payload := dto.ExchangeResponse{
		SourceWallet: toWalletResponse(res.Wallet),
		Transaction:  toTransactionResponse(res.Transaction),
	}
	if res.Counterparty != nil {
		payload.TargetWallet = toWalletResponse(res.Counterparty)
	}
	respond(c, res, payload)
}

// Freeze handles POST /api/wallets/:id/freeze.
func (h *WalletHandler) Freeze(c *gin.Context) {
	h.lifecycle(c, h.svc.Freeze)
}

// Unfreeze handles POST /api/wallets/:id/unfreeze.
func (h *WalletHandler) Unfreeze(c *gin.Context) {
	h.lifecycle(c, h.svc.Unfreeze)
}

// Close handles POST /api/wallets/:id/close.
func (h *WalletHandler) Close(c *gin.Context) {
	h.lifecycle(c, h.svc.Close)
}

func (h *WalletHandler) lifecycle(c *gin.Context, op func(context.Context, uuid.UUID) (*ports.OperationResult, error)) {
	id, ok := walletID(c)
	if !ok {
		return
	}
	res, err := op(c.Request.Context(), id)
	respondOperation(c, res, err)
}

// Currencies handles GET /api/currencies.
func Currencies(c *gin.Context) {
	response.OK(c, toCurrencyResponses(money.Currencies()))
}

func walletID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("wallet id must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}

func respondOperation(c *gin.Context, res *ports.OperationResult, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, res, dto.OperationResponse{
		Wallet:      toWalletResponse(res.Wallet),
		Transaction: toTransactionResponse(res.Transaction),
	})
}

// respond writes 200 for a completed operation. A recorded failure is
// reported with its error code and still carries the payload.
func respond(c *gin.Context, res *ports.OperationResult, payload interface{}) {
	if !res.Failed() {
		response.OK(c, payload)
		return
	}
	code := res.Transaction.ErrorCode
	response.Failed(c, apperror.Rejection(string(code), code.Message(), code.IsExternal()), payload)
}
