package handler

import (
	"context"
	"net/http"

	"github.com/corebank/ledger/internal/adapter/http/dto"
	"github.com/corebank/ledger/internal/domain"
	"github.com/corebank/ledger/internal/infrastructure/metrics"
)

type accountService interface {
	Open(ctx context.Context) (*domain.Account, error)
	Close(ctx context.Context, accountID int64) error
}

// AccountHandler handles account lifecycle requests.
type AccountHandler struct {
	accounts accountService
	metrics  *metrics.Metrics
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accounts accountService, m *metrics.Metrics) *AccountHandler {
	return &AccountHandler{accounts: accounts, metrics: m}
}

// Open creates a new account with a zero balance.
func (h *AccountHandler) Open(w http.ResponseWriter, r *http.Request) {
	account, err := h.accounts.Open(r.Context())
	if err != nil {
		writeDomainError(w, "failed to open account", err)
		return
	}

	h.metrics.AccountsOpened.Inc()

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Close removes an empty account.
func (h *AccountHandler) Close(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account ID", err.Error())
		return
	}

	if err := h.accounts.Close(r.Context(), id); err != nil {
		writeDomainError(w, "failed to close account", err)
		return
	}

	h.metrics.AccountsClosed.Inc()

	w.WriteHeader(http.StatusNoContent)
}
