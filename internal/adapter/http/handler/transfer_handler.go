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

type transferService interface {
	Transfer(ctx context.Context, fromID, toID int64, amount decimal.Decimal, description string) (*ledger.Receipt, error)
}

// TransferHandler handles transfer requests.
type TransferHandler struct {
	transfers transferService
	metrics   *metrics.Metrics
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transfers transferService, m *metrics.Metrics) *TransferHandler {
	return &TransferHandler{transfers: transfers, metrics: m}
}

// Create executes a transfer between two accounts.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	start := time.Now()
	receipt, err := h.transfers.Transfer(r.Context(), req.FromAccountID, req.ToAccountID, req.Amount, req.Description)
	h.metrics.OperationDuration.WithLabelValues("transfer").Observe(time.Since(start).Seconds())

	if err != nil {
		h.metrics.OperationErrors.WithLabelValues("transfer", errorType(err)).Inc()
		writeDomainError(w, "transfer failed", err)
		return
	}

	h.metrics.TransfersCompleted.Inc()
	h.metrics.OperationAmount.WithLabelValues("transfer").Observe(req.Amount.InexactFloat64())

	writeJSON(w, http.StatusCreated, dto.ReceiptFromResult(receipt))
}
