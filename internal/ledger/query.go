package ledger

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/corebank/ledger/internal/domain"
)

// QueryService is the read side of the ledger. It never mutates; results
// are safe to retry and, for balances, briefly cached.
type QueryService struct {
	accounts AccountRepository
	entries  EntryRepository
	cache    BalanceCache
	logger   zerolog.Logger
}

// NewQueryService creates a new QueryService. cache may be nil.
func NewQueryService(accounts AccountRepository, entries EntryRepository, cache BalanceCache, logger zerolog.Logger) *QueryService {
	return &QueryService{
		accounts: accounts,
		entries:  entries,
		cache:    cache,
		logger:   logger,
	}
}

// GetBalance returns the account's current balance.
func (s *QueryService) GetBalance(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	if s.cache != nil {
		balance, ok, err := s.cache.Get(ctx, accountID)
		if err != nil {
			s.logger.Debug().Err(err).Int64("account_id", accountID).Msg("balance cache read failed")
		} else if ok {
			return balance, nil
		}
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, mapStorageError(err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, accountID, account.Balance); err != nil {
			s.logger.Debug().Err(err).Int64("account_id", accountID).Msg("balance cache write failed")
		}
	}

	return account.Balance, nil
}

// GetHistory lists the account's entries, newest first.
func (s *QueryService) GetHistory(ctx context.Context, accountID int64, filter domain.EntryFilter, page domain.Page) ([]*domain.Entry, error) {
	if filter.Kind != "" && !filter.Kind.Valid() {
		return nil, fmt.Errorf("%w: unknown entry kind %q", domain.ErrInvalidFilter, filter.Kind)
	}

	if err := domain.ValidateDateRange(domain.DateRange{Start: filter.StartDate, End: filter.EndDate}); err != nil {
		return nil, err
	}

	exists, err := s.accounts.Exists(ctx, accountID)
	if err != nil {
		return nil, mapStorageError(err)
	}
	if !exists {
		return nil, domain.ErrAccountNotFound
	}

	return s.entries.ListForAccount(ctx, accountID, filter, page.Normalize())
}

// Search is a free-text history lookup over description, counterparty
// and amount.
func (s *QueryService) Search(ctx context.Context, accountID int64, term string, page domain.Page) ([]*domain.Entry, error) {
	return s.GetHistory(ctx, accountID, domain.EntryFilter{Search: term}, page)
}

// GetEntry retrieves a single entry by ID.
func (s *QueryService) GetEntry(ctx context.Context, entryID int64) (*domain.Entry, error) {
	return s.entries.FindByID(ctx, entryID)
}

// GetStatistics aggregates the account's history over the given range.
// An empty history yields zeros, not an error.
func (s *QueryService) GetStatistics(ctx context.Context, accountID int64, r domain.DateRange) (*domain.Statistics, error) {
	if err := domain.ValidateDateRange(r); err != nil {
		return nil, err
	}

	exists, err := s.accounts.Exists(ctx, accountID)
	if err != nil {
		return nil, mapStorageError(err)
	}
	if !exists {
		return nil, domain.ErrAccountNotFound
	}

	return s.entries.Statistics(ctx, accountID, r)
}
