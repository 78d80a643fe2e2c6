package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/corebank/ledger/internal/domain"
)

// TransferEngine moves money between two accounts as one atomic unit:
// both balance mutations and the entry-log append commit together or not
// at all.
type TransferEngine struct {
	txManager TxManager
	accounts  AccountRepository
	entries   EntryRepository
	retrier   Retrier
	cache     BalanceCache
	limits    domain.Limits
	logger    zerolog.Logger
}

// NewTransferEngine creates a new TransferEngine. cache may be nil.
func NewTransferEngine(
	txManager TxManager,
	accounts AccountRepository,
	entries EntryRepository,
	retrier Retrier,
	cache BalanceCache,
	limits domain.Limits,
	logger zerolog.Logger,
) *TransferEngine {
	return &TransferEngine{
		txManager: txManager,
		accounts:  accounts,
		entries:   entries,
		retrier:   retrier,
		cache:     cache,
		limits:    limits,
		logger:    logger,
	}
}

// Transfer debits fromID and credits toID by amount.
//
// Preconditions are checked in a fixed order, first failure wins:
// amount validity, amount cap, self-transfer, account existence
// (sender before recipient), sufficient funds. The existence and funds
// checks outside the transaction are advisory; the authoritative checks
// happen again under the row locks before any mutation.
func (e *TransferEngine) Transfer(ctx context.Context, fromID, toID int64, amount decimal.Decimal, description string) (*Receipt, error) {
	if err := domain.ValidateAmount(amount, e.limits.MaxTransfer); err != nil {
		return nil, err
	}

	if err := domain.ValidateDescription(description); err != nil {
		return nil, err
	}

	if fromID == toID {
		return nil, domain.ErrSelfTransfer
	}

	from, err := e.accounts.GetByID(ctx, fromID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.SenderNotFound(fromID)
		}
		return nil, mapStorageError(err)
	}

	if _, err := e.accounts.GetByID(ctx, toID); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.RecipientNotFound(toID)
		}
		return nil, mapStorageError(err)
	}

	if err := from.ValidateDebit(amount); err != nil {
		return nil, err
	}

	var receipt *Receipt

	err = e.retrier.Retry(ctx, func() error {
		r, err := e.transferOnce(ctx, fromID, toID, amount, description)
		if err != nil {
			return err
		}
		receipt = r
		return nil
	})
	if err != nil {
		return nil, mapStorageError(err)
	}

	invalidateBalances(ctx, e.cache, e.logger, fromID, toID)

	e.logger.Info().
		Int64("entry_id", receipt.EntryID).
		Int64("from_account_id", fromID).
		Int64("to_account_id", toID).
		Str("amount", amount.String()).
		Msg("transfer committed")

	return receipt, nil
}

func (e *TransferEngine) transferOnce(ctx context.Context, fromID, toID int64, amount decimal.Decimal, description string) (*Receipt, error) {
	tx, err := e.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Canonical lock order: ascending account ID, independent of the
	// from/to roles. Two opposite-direction transfers over the same pair
	// therefore queue instead of deadlocking.
	ids := []int64{fromID, toID}
	if toID < fromID {
		ids = []int64{toID, fromID}
	}

	accounts, err := e.accounts.GetForUpdate(ctx, tx, ids)
	if err != nil {
		return nil, err
	}

	var from, to *domain.Account
	for _, a := range accounts {
		switch a.ID {
		case fromID:
			from = a
		case toID:
			to = a
		}
	}

	if from == nil {
		return nil, domain.SenderNotFound(fromID)
	}
	if to == nil {
		return nil, domain.RecipientNotFound(toID)
	}

	// Authoritative funds check: the balance may have changed between
	// the advisory check and lock acquisition.
	if err := from.ValidateDebit(amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	newBalance, err := e.accounts.AdjustBalance(ctx, tx, fromID, amount.Neg(), decimal.Zero, now)
	if err != nil {
		return nil, err
	}

	if _, err := e.accounts.AdjustBalance(ctx, tx, toID, amount, decimal.Zero, now); err != nil {
		return nil, err
	}

	entryID, err := e.entries.Append(ctx, tx, &domain.Entry{
		Kind:          domain.EntryKindTransfer,
		FromAccountID: &fromID,
		ToAccountID:   &toID,
		Amount:        amount,
		Status:        domain.EntryStatusCompleted,
		Description:   description,
		OccurredAt:    now,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &Receipt{EntryID: entryID, NewBalance: newBalance, OccurredAt: now}, nil
}

// mapStorageError folds storage-level failures into the error taxonomy.
// Domain errors pass through untouched.
func mapStorageError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", domain.ErrTimeout, err)
	}

	return err
}

func invalidateBalances(ctx context.Context, cache BalanceCache, logger zerolog.Logger, ids ...int64) {
	if cache == nil {
		return
	}

	for _, id := range ids {
		if err := cache.Invalidate(ctx, id); err != nil {
			logger.Warn().Err(err).Int64("account_id", id).Msg("balance cache invalidation failed")
		}
	}
}
