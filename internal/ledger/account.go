package ledger

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/corebank/ledger/internal/domain"
)

// AccountService handles the account lifecycle around the engine:
// opening with a zero balance and closing once the balance is back to
// zero. Accounts are never deleted while they hold funds.
type AccountService struct {
	txManager TxManager
	accounts  AccountRepository
	cache     BalanceCache
	logger    zerolog.Logger
}

// NewAccountService creates a new AccountService. cache may be nil.
func NewAccountService(txManager TxManager, accounts AccountRepository, cache BalanceCache, logger zerolog.Logger) *AccountService {
	return &AccountService{
		txManager: txManager,
		accounts:  accounts,
		cache:     cache,
		logger:    logger,
	}
}

// Open creates a new account with a zero balance.
func (s *AccountService) Open(ctx context.Context) (*domain.Account, error) {
	now := time.Now().UTC()

	account := &domain.Account{
		Balance:   decimal.Zero,
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, mapStorageError(err)
	}

	s.logger.Info().Int64("account_id", account.ID).Msg("account opened")

	return account, nil
}

// Close removes an account. Fails with ErrAccountNotEmpty while the
// balance is above zero; the check happens under the row lock.
func (s *AccountService) Close(ctx context.Context, accountID int64) error {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return mapStorageError(err)
	}
	defer tx.Rollback(ctx)

	accounts, err := s.accounts.GetForUpdate(ctx, tx, []int64{accountID})
	if err != nil {
		return mapStorageError(err)
	}
	if len(accounts) == 0 {
		return domain.ErrAccountNotFound
	}

	if !accounts[0].Balance.IsZero() {
		return domain.ErrAccountNotEmpty
	}

	if err := s.accounts.Delete(ctx, tx, accountID); err != nil {
		return mapStorageError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return mapStorageError(err)
	}

	if s.cache != nil {
		invalidateBalances(ctx, s.cache, s.logger, accountID)
	}

	s.logger.Info().Int64("account_id", accountID).Msg("account closed")

	return nil
}
