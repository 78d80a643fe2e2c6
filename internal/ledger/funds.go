package ledger

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/corebank/ledger/internal/domain"
)

// FundsEngine handles single-account money movements: deposits and
// withdrawals. Same atomic pattern as transfers, one account lock.
type FundsEngine struct {
	txManager TxManager
	accounts  AccountRepository
	entries   EntryRepository
	retrier   Retrier
	cache     BalanceCache
	limits    domain.Limits
	logger    zerolog.Logger
}

// NewFundsEngine creates a new FundsEngine. cache may be nil.
func NewFundsEngine(
	txManager TxManager,
	accounts AccountRepository,
	entries EntryRepository,
	retrier Retrier,
	cache BalanceCache,
	limits domain.Limits,
	logger zerolog.Logger,
) *FundsEngine {
	return &FundsEngine{
		txManager: txManager,
		accounts:  accounts,
		entries:   entries,
		retrier:   retrier,
		cache:     cache,
		limits:    limits,
		logger:    logger,
	}
}

// Deposit credits accountID by amount.
func (e *FundsEngine) Deposit(ctx context.Context, accountID int64, amount decimal.Decimal, description string) (*Receipt, error) {
	if err := domain.ValidateAmount(amount, e.limits.MaxDeposit); err != nil {
		return nil, err
	}

	return e.apply(ctx, accountID, domain.EntryKindDeposit, amount, description)
}

// Withdraw debits accountID by amount. The funds check against the
// current balance happens under the row lock.
func (e *FundsEngine) Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal, description string) (*Receipt, error) {
	if err := domain.ValidateAmount(amount, e.limits.MaxWithdrawal); err != nil {
		return nil, err
	}

	return e.apply(ctx, accountID, domain.EntryKindWithdrawal, amount, description)
}

func (e *FundsEngine) apply(ctx context.Context, accountID int64, kind domain.EntryKind, amount decimal.Decimal, description string) (*Receipt, error) {
	if err := domain.ValidateDescription(description); err != nil {
		return nil, err
	}

	if _, err := e.accounts.GetByID(ctx, accountID); err != nil {
		return nil, mapStorageError(err)
	}

	var receipt *Receipt

	err := e.retrier.Retry(ctx, func() error {
		r, err := e.applyOnce(ctx, accountID, kind, amount, description)
		if err != nil {
			return err
		}
		receipt = r
		return nil
	})
	if err != nil {
		return nil, mapStorageError(err)
	}

	invalidateBalances(ctx, e.cache, e.logger, accountID)

	e.logger.Info().
		Int64("entry_id", receipt.EntryID).
		Int64("account_id", accountID).
		Str("kind", string(kind)).
		Str("amount", amount.String()).
		Msg("funds movement committed")

	return receipt, nil
}

func (e *FundsEngine) applyOnce(ctx context.Context, accountID int64, kind domain.EntryKind, amount decimal.Decimal, description string) (*Receipt, error) {
	tx, err := e.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	accounts, err := e.accounts.GetForUpdate(ctx, tx, []int64{accountID})
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, domain.ErrAccountNotFound
	}
	account := accounts[0]

	delta := amount
	entry := &domain.Entry{
		Kind:        kind,
		Amount:      amount,
		Status:      domain.EntryStatusCompleted,
		Description: description,
	}

	switch kind {
	case domain.EntryKindDeposit:
		entry.ToAccountID = &accountID
	case domain.EntryKindWithdrawal:
		if err := account.ValidateDebit(amount); err != nil {
			return nil, err
		}
		delta = amount.Neg()
		entry.FromAccountID = &accountID
	}

	now := time.Now().UTC()
	entry.OccurredAt = now

	newBalance, err := e.accounts.AdjustBalance(ctx, tx, accountID, delta, decimal.Zero, now)
	if err != nil {
		return nil, err
	}

	entryID, err := e.entries.Append(ctx, tx, entry)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &Receipt{EntryID: entryID, NewBalance: newBalance, OccurredAt: now}, nil
}
