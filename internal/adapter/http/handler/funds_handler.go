package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/corebank/ledger/internal/adapter/http/dto"
	"github.com/corebank/ledger/internal/infrastructure/metrics"
	"github.com/corebank/ledger/internal/ledger"
)

type fundsService interface {
	Deposit(ctx context.Context, accountID int64, amount decimal.Decimal, description string) (*ledger.Receipt, error)
	Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal, description string) (*ledger.Receipt, error)
}

// FundsHandler handles deposit and withdrawal requests.
type FundsHandler struct {
	funds   fundsService
	metrics *metrics.Metrics
}

// NewFundsHandler creates a new FundsHandler.
func NewFundsHandler(funds fundsService, m *metrics.Metrics) *FundsHandler {
	return &FundsHandler{funds: funds, metrics: m}
}

// Deposit credits an account from outside the ledger.
func (h *FundsHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req dto.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	start := time.Now()
	receipt, err := h.funds.Deposit(r.Context(), req.AccountID, req.Amount, req.Description)
	h.metrics.OperationDuration.WithLabelValues("deposit").Observe(time.Since(start).Seconds())

	if err != nil {
		h.metrics.OperationErrors.WithLabelValues("deposit", errorType(err)).Inc()
		writeDomainError(w, "deposit failed", err)
		return
	}

	h.metrics.DepositsCompleted.Inc()
	h.metrics.OperationAmount.WithLabelValues("deposit").Observe(req.Amount.InexactFloat64())

	writeJSON(w, http.StatusCreated, dto.ReceiptFromResult(receipt))
}

// Withdraw debits an account to outside the ledger.
func (h *FundsHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req dto.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	start := time.Now()
	receipt, err := h.funds.Withdraw(r.Context(), req.AccountID, req.Amount, req.Description)
	h.metrics.OperationDuration.WithLabelValues("withdrawal").Observe(time.Since(start).Seconds())

	if err != nil {
		h.metrics.OperationErrors.WithLabelValues("withdrawal", errorType(err)).Inc()
		writeDomainError(w, "withdrawal failed", err)
		return
	}

	h.metrics.WithdrawalsCompleted.Inc()
	h.metrics.OperationAmount.WithLabelValues("withdrawal").Observe(req.Amount.InexactFloat64())

	writeJSON(w, http.StatusCreated, dto.ReceiptFromResult(receipt))
}
