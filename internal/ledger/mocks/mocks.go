package mocks

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/corebank/ledger/internal/domain"
	"github.com/corebank/ledger/internal/ledger"
)

// memTx implements ledger.Tx over a Store snapshot.
type memTx struct {
	store *Store
	done  bool
}

func (t *memTx) Commit(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.commit()
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.rollback()
	return nil
}

// MockTxManager is a mock implementation of ledger.TxManager.
type MockTxManager struct {
	store *Store

	BeginFunc func(ctx context.Context) (ledger.Tx, error)
}

func NewMockTxManager(store *Store) *MockTxManager {
	return &MockTxManager{store: store}
}

func (m *MockTxManager) Begin(ctx context.Context) (ledger.Tx, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return m.store.begin(), nil
}

// MockAccountRepository is a mock implementation of ledger.AccountRepository.
// Defaults operate on the shared Store; set a Func field to override.
type MockAccountRepository struct {
	store *Store

	CreateFunc        func(ctx context.Context, account *domain.Account) error
	GetByIDFunc       func(ctx context.Context, id int64) (*domain.Account, error)
	ExistsFunc        func(ctx context.Context, id int64) (bool, error)
	GetForUpdateFunc  func(ctx context.Context, tx ledger.Tx, ids []int64) ([]*domain.Account, error)
	AdjustBalanceFunc func(ctx context.Context, tx ledger.Tx, id int64, delta, minBalance decimal.Decimal, updatedAt time.Time) (decimal.Decimal, error)
	DeleteFunc        func(ctx context.Context, tx ledger.Tx, id int64) error
	ListFunc          func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

func NewMockAccountRepository(store *Store) *MockAccountRepository {
	return &MockAccountRepository{store: store}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}

	s := m.store
	s.mu.Lock()
	defer s.mu.Unlock()

	account.ID = s.nextAccountID
	s.nextAccountID++
	cp := *account
	s.accounts[account.ID] = &cp
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}

	s := m.store
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *MockAccountRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, id)
	}

	s := m.store
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.accounts[id]
	return ok, nil
}

// GetForUpdate assumes the caller holds the store lock through tx.
func (m *MockAccountRepository) GetForUpdate(ctx context.Context, tx ledger.Tx, ids []int64) ([]*domain.Account, error) {
	if m.GetForUpdateFunc != nil {
		return m.GetForUpdateFunc(ctx, tx, ids)
	}

	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var out []*domain.Account
	for _, id := range sorted {
		if a, ok := m.store.accounts[id]; ok {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockAccountRepository) AdjustBalance(ctx context.Context, tx ledger.Tx, id int64, delta, minBalance decimal.Decimal, updatedAt time.Time) (decimal.Decimal, error) {
	if m.AdjustBalanceFunc != nil {
		return m.AdjustBalanceFunc(ctx, tx, id, delta, minBalance, updatedAt)
	}

	a, ok := m.store.accounts[id]
	if !ok {
		return decimal.Zero, domain.ErrAccountNotFound
	}

	newBalance := a.Balance.Add(delta)
	if newBalance.LessThan(minBalance) {
		return decimal.Zero, domain.ErrInsufficientFunds
	}

	a.Balance = newBalance
	a.Version++
	a.UpdatedAt = updatedAt
	return newBalance, nil
}

func (m *MockAccountRepository) Delete(ctx context.Context, tx ledger.Tx, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}

	if _, ok := m.store.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(m.store.accounts, id)
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}

	s := m.store
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(s.accounts))
	for id := range s.accounts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []*domain.Account
	for i := offset; i < len(ids) && len(out) < limit; i++ {
		cp := *s.accounts[ids[i]]
		out = append(out, &cp)
	}
	return out, nil
}

// MockEntryRepository is a mock implementation of ledger.EntryRepository.
type MockEntryRepository struct {
	store *Store

	AppendFunc         func(ctx context.Context, tx ledger.Tx, entry *domain.Entry) (int64, error)
	FindByIDFunc       func(ctx context.Context, id int64) (*domain.Entry, error)
	ListForAccountFunc func(ctx context.Context, accountID int64, filter domain.EntryFilter, page domain.Page) ([]*domain.Entry, error)
	StatisticsFunc     func(ctx context.Context, accountID int64, r domain.DateRange) (*domain.Statistics, error)
	SignedSumFunc      func(ctx context.Context, accountID int64) (decimal.Decimal, error)
}

func NewMockEntryRepository(store *Store) *MockEntryRepository {
	return &MockEntryRepository{store: store}
}

func (m *MockEntryRepository) Append(ctx context.Context, tx ledger.Tx, entry *domain.Entry) (int64, error) {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, tx, entry)
	}

	s := m.store
	cp := *entry
	cp.ID = s.nextEntryID
	s.nextEntryID++
	s.entries = append(s.entries, &cp)
	return cp.ID, nil
}

func (m *MockEntryRepository) FindByID(ctx context.Context, id int64) (*domain.Entry, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}

	s := m.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockEntryRepository) ListForAccount(ctx context.Context, accountID int64, filter domain.EntryFilter, page domain.Page) ([]*domain.Entry, error) {
	if m.ListForAccountFunc != nil {
		return m.ListForAccountFunc(ctx, accountID, filter, page)
	}

	s := m.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*domain.Entry
	for _, e := range s.entries {
		if !touches(e, accountID) {
			continue
		}
		if !matchesFilter(e, filter) {
			continue
		}
		cp := *e
		matched = append(matched, &cp)
	}

	// Newest first, entry ID as tiebreaker.
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].OccurredAt.Equal(matched[j].OccurredAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].OccurredAt.After(matched[j].OccurredAt)
	})

	if page.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[page.Offset:]
	if len(matched) > page.Limit {
		matched = matched[:page.Limit]
	}
	return matched, nil
}

func (m *MockEntryRepository) Statistics(ctx context.Context, accountID int64, r domain.DateRange) (*domain.Statistics, error) {
	if m.StatisticsFunc != nil {
		return m.StatisticsFunc(ctx, accountID, r)
	}

	s := m.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &domain.Statistics{
		TotalDeposits:    decimal.Zero,
		TotalWithdrawals: decimal.Zero,
		TotalSent:        decimal.Zero,
		TotalReceived:    decimal.Zero,
		NetTransfers:     decimal.Zero,
	}

	for _, e := range s.entries {
		if !touches(e, accountID) || !inRange(e.OccurredAt, r) {
			continue
		}

		stats.EntryCount++
		switch e.Kind {
		case domain.EntryKindDeposit:
			stats.TotalDeposits = stats.TotalDeposits.Add(e.Amount)
		case domain.EntryKindWithdrawal:
			stats.TotalWithdrawals = stats.TotalWithdrawals.Add(e.Amount)
		case domain.EntryKindTransfer:
			if e.FromAccountID != nil && *e.FromAccountID == accountID {
				stats.TotalSent = stats.TotalSent.Add(e.Amount)
			}
			if e.ToAccountID != nil && *e.ToAccountID == accountID {
				stats.TotalReceived = stats.TotalReceived.Add(e.Amount)
			}
		}
	}

	stats.NetTransfers = stats.TotalReceived.Sub(stats.TotalSent)
	return stats, nil
}

func (m *MockEntryRepository) SignedSum(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	if m.SignedSumFunc != nil {
		return m.SignedSumFunc(ctx, accountID)
	}

	s := m.store
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := decimal.Zero
	for _, e := range s.entries {
		sum = sum.Add(e.SignedAmount(accountID))
	}
	return sum, nil
}

func touches(e *domain.Entry, accountID int64) bool {
	if e.FromAccountID != nil && *e.FromAccountID == accountID {
		return true
	}
	if e.ToAccountID != nil && *e.ToAccountID == accountID {
		return true
	}
	return false
}

func matchesFilter(e *domain.Entry, f domain.EntryFilter) bool {
	if f.Kind != "" && e.Kind != f.Kind {
		return false
	}
	if !inRange(e.OccurredAt, domain.DateRange{Start: f.StartDate, End: f.EndDate}) {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(e.Description), term) &&
			!strings.Contains(e.Amount.String(), term) &&
			!counterpartyMatches(e, term) {
			return false
		}
	}
	return true
}

func counterpartyMatches(e *domain.Entry, term string) bool {
	if e.FromAccountID != nil && strings.Contains(decimal.NewFromInt(*e.FromAccountID).String(), term) {
		return true
	}
	if e.ToAccountID != nil && strings.Contains(decimal.NewFromInt(*e.ToAccountID).String(), term) {
		return true
	}
	return false
}

func inRange(t time.Time, r domain.DateRange) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

// MockRetrier is a mock implementation of ledger.Retrier that runs the
// operation once.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}
