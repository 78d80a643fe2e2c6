package mocks

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/corebank/ledger/internal/domain"
)

// Store is a memory-backed ledger shared by the mock repositories.
// A transaction holds the store's lock from Begin until Commit or
// Rollback, which serializes mutating operations the way row locks do
// in the real store. Begin snapshots the state so Rollback can restore
// it, which makes atomicity observable in tests.
type Store struct {
	mu       sync.Mutex
	accounts map[int64]*domain.Account
	entries  []*domain.Entry

	nextAccountID int64
	nextEntryID   int64

	snapAccounts      map[int64]*domain.Account
	snapEntries       []*domain.Entry
	snapNextAccountID int64
	snapNextEntryID   int64
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		accounts:      make(map[int64]*domain.Account),
		nextAccountID: 1,
		nextEntryID:   1,
	}
}

// SeedAccount creates an account with the given ID and balance,
// bypassing the engine. Test setup only.
func (s *Store) SeedAccount(id int64, balance decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts[id] = &domain.Account{ID: id, Balance: balance}
	if id >= s.nextAccountID {
		s.nextAccountID = id + 1
	}
}

// Balance returns the committed balance of an account.
func (s *Store) Balance(id int64) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a, ok := s.accounts[id]; ok {
		return a.Balance
	}
	return decimal.Zero
}

// Entries returns a copy of the committed entry log.
func (s *Store) Entries() []*domain.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Store) begin() *memTx {
	s.mu.Lock()

	s.snapAccounts = make(map[int64]*domain.Account, len(s.accounts))
	for id, a := range s.accounts {
		cp := *a
		s.snapAccounts[id] = &cp
	}
	s.snapEntries = make([]*domain.Entry, len(s.entries))
	copy(s.snapEntries, s.entries)
	s.snapNextAccountID = s.nextAccountID
	s.snapNextEntryID = s.nextEntryID

	return &memTx{store: s}
}

func (s *Store) commit() {
	s.snapAccounts = nil
	s.snapEntries = nil
	s.mu.Unlock()
}

func (s *Store) rollback() {
	s.accounts = s.snapAccounts
	s.entries = s.snapEntries
	s.nextAccountID = s.snapNextAccountID
	s.nextEntryID = s.snapNextEntryID
	s.snapAccounts = nil
	s.snapEntries = nil
	s.mu.Unlock()
}
