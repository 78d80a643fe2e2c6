package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/corebank/ledger/internal/domain"
)

// AccountRepository defines data access for the account store.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// GetForUpdate locks the given accounts for the duration of tx.
	// Locks are always taken in ascending ID order regardless of the
	// order of ids, so concurrent multi-account operations cannot
	// deadlock each other.
	GetForUpdate(ctx context.Context, tx Tx, ids []int64) ([]*domain.Account, error)
	// AdjustBalance applies balance += delta only if the resulting
	// balance stays >= minBalance, and returns the new balance.
	// Fails with domain.ErrInsufficientFunds otherwise.
	AdjustBalance(ctx context.Context, tx Tx, id int64, delta, minBalance decimal.Decimal, updatedAt time.Time) (decimal.Decimal, error)
	Delete(ctx context.Context, tx Tx, id int64) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// EntryRepository defines data access for the append-only entry log.
type EntryRepository interface {
	// Append persists one immutable entry and returns its assigned,
	// strictly increasing ID.
	Append(ctx context.Context, tx Tx, entry *domain.Entry) (int64, error)
	FindByID(ctx context.Context, id int64) (*domain.Entry, error)
	ListForAccount(ctx context.Context, accountID int64, filter domain.EntryFilter, page domain.Page) ([]*domain.Entry, error)
	Statistics(ctx context.Context, accountID int64, r domain.DateRange) (*domain.Statistics, error)
	// SignedSum recomputes an account's balance from the log: credits
	// positive, debits negative. Used by the audit service to check the
	// projection invariant.
	SignedSum(ctx context.Context, accountID int64) (decimal.Decimal, error)
}

// Tx represents a storage transaction.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TxManager handles transaction lifecycle.
type TxManager interface {
	Begin(ctx context.Context) (Tx, error)
}

// Retrier re-runs an operation on transient storage conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// BalanceCache is a short-TTL read-side cache for balance lookups.
// A miss is not an error; mutation paths invalidate eagerly.
type BalanceCache interface {
	Get(ctx context.Context, accountID int64) (decimal.Decimal, bool, error)
	Set(ctx context.Context, accountID int64, balance decimal.Decimal) error
	Invalidate(ctx context.Context, accountID int64) error
}

// Receipt is the success result of a mutating operation.
type Receipt struct {
	EntryID    int64
	NewBalance decimal.Decimal
	OccurredAt time.Time
}
