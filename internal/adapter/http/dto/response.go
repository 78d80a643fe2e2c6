package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/corebank/ledger/internal/domain"
	"github.com/corebank/ledger/internal/ledger"
)

// ReceiptResponse confirms a completed mutating operation.
type ReceiptResponse struct {
	EntryID    int64           `json:"entry_id"`
	Balance    decimal.Decimal `json:"balance"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// ReceiptFromResult converts an operation receipt to a response.
func ReceiptFromResult(r *ledger.Receipt) *ReceiptResponse {
	return &ReceiptResponse{
		EntryID:    r.EntryID,
		Balance:    r.NewBalance,
		OccurredAt: r.OccurredAt,
	}
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        int64           `json:"id"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		Balance:   a.Balance,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// BalanceResponse represents a balance lookup result.
type BalanceResponse struct {
	AccountID int64           `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID            int64           `json:"id"`
	Kind          string          `json:"kind"`
	FromAccountID *int64          `json:"from_account_id,omitempty"`
	ToAccountID   *int64          `json:"to_account_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	Description   string          `json:"description,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:            e.ID,
		Kind:          string(e.Kind),
		FromAccountID: e.FromAccountID,
		ToAccountID:   e.ToAccountID,
		Amount:        e.Amount,
		Status:        string(e.Status),
		Description:   e.Description,
		OccurredAt:    e.OccurredAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// StatisticsResponse aggregates an account's history in API responses.
type StatisticsResponse struct {
	TotalDeposits    decimal.Decimal `json:"total_deposits"`
	TotalWithdrawals decimal.Decimal `json:"total_withdrawals"`
	TotalSent        decimal.Decimal `json:"total_sent"`
	TotalReceived    decimal.Decimal `json:"total_received"`
	NetTransfers     decimal.Decimal `json:"net_transfers"`
	EntryCount       int64           `json:"entry_count"`
}

// StatisticsFromDomain converts domain statistics to a response.
func StatisticsFromDomain(s *domain.Statistics) *StatisticsResponse {
	return &StatisticsResponse{
		TotalDeposits:    s.TotalDeposits,
		TotalWithdrawals: s.TotalWithdrawals,
		TotalSent:        s.TotalSent,
		TotalReceived:    s.TotalReceived,
		NetTransfers:     s.NetTransfers,
		EntryCount:       s.EntryCount,
	}
}

// AuditResultResponse reports one account's consistency check.
type AuditResultResponse struct {
	AccountID       int64           `json:"account_id"`
	StoredBalance   decimal.Decimal `json:"stored_balance"`
	ComputedBalance decimal.Decimal `json:"computed_balance"`
	Difference      decimal.Decimal `json:"difference"`
	Consistent      bool            `json:"consistent"`
	CheckedAt       time.Time       `json:"checked_at"`
}

// AuditResultFromLedger converts an audit result to a response.
func AuditResultFromLedger(r *ledger.AuditResult) *AuditResultResponse {
	return &AuditResultResponse{
		AccountID:       r.AccountID,
		StoredBalance:   r.StoredBalance,
		ComputedBalance: r.ComputedBalance,
		Difference:      r.Difference,
		Consistent:      r.Consistent,
		CheckedAt:       r.CheckedAt,
	}
}

// AuditReportResponse summarizes a full-ledger consistency check.
type AuditReportResponse struct {
	TotalAccounts      int                    `json:"total_accounts"`
	ConsistentAccounts int                    `json:"consistent_accounts"`
	Discrepancies      []*AuditResultResponse `json:"discrepancies"`
	CheckedAt          time.Time              `json:"checked_at"`
}

// AuditReportFromLedger converts an audit report to a response.
func AuditReportFromLedger(r *ledger.AuditReport) *AuditReportResponse {
	discrepancies := make([]*AuditResultResponse, len(r.Discrepancies))
	for i, d := range r.Discrepancies {
		discrepancies[i] = AuditResultFromLedger(d)
	}
	return &AuditReportResponse{
		TotalAccounts:      r.TotalAccounts,
		ConsistentAccounts: r.ConsistentAccounts,
		Discrepancies:      discrepancies,
		CheckedAt:          r.CheckedAt,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
