package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind identifies the type of money movement an entry records.
type EntryKind string

const (
	EntryKindTransfer   EntryKind = "transfer"
	EntryKindDeposit    EntryKind = "deposit"
	EntryKindWithdrawal EntryKind = "withdrawal"
)

// Valid reports whether k is a known entry kind.
func (k EntryKind) Valid() bool {
	switch k {
	case EntryKindTransfer, EntryKindDeposit, EntryKindWithdrawal:
		return true
	}
	return false
}

// EntryStatus is the terminal status of an entry. Only completed entries
// are durably written; failed attempts surface as errors to the caller
// and leave no trace in the log.
type EntryStatus string

const (
	EntryStatusCompleted EntryStatus = "completed"
	EntryStatusFailed    EntryStatus = "failed"
)

// Entry is one immutable record in the ledger entry log.
// FromAccountID is nil for deposits, ToAccountID is nil for withdrawals,
// both are set for transfers.
type Entry struct {
	ID            int64
	Kind          EntryKind
	FromAccountID *int64
	ToAccountID   *int64
	Amount        decimal.Decimal
	Status        EntryStatus
	Description   string
	OccurredAt    time.Time
}

// SignedAmount returns the entry's amount from the point of view of
// accountID: negative when the account is the debit party, positive when
// it is the credit party, zero otherwise.
func (e *Entry) SignedAmount(accountID int64) decimal.Decimal {
	if e.FromAccountID != nil && *e.FromAccountID == accountID {
		return e.Amount.Neg()
	}
	if e.ToAccountID != nil && *e.ToAccountID == accountID {
		return e.Amount
	}
	return decimal.Zero
}

// EntryFilter narrows history listings. Zero values mean "no constraint".
type EntryFilter struct {
	Kind      EntryKind
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
}

// Page is (limit, offset) pagination. Limit is clamped to [1,100] by
// Normalize; offset is clamped to >= 0.
type Page struct {
	Limit  int
	Offset int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Normalize clamps pagination to the supported bounds.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// DateRange bounds a statistics query. Either side may be nil.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// Statistics aggregates an account's history, recomputed from the entry
// log rather than trusted from the denormalized balance.
type Statistics struct {
	TotalDeposits    decimal.Decimal
	TotalWithdrawals decimal.Decimal
	TotalSent        decimal.Decimal
	TotalReceived    decimal.Decimal
	NetTransfers     decimal.Decimal
	EntryCount       int64
}
