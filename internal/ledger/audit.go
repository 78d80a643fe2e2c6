package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AuditService checks the derivable invariant of the ledger: an
// account's stored balance must equal the signed sum of its entries.
// The entry log is the source of truth; the balance column is only a
// projection.
type AuditService struct {
	accounts AccountRepository
	entries  EntryRepository
}

// NewAuditService creates a new AuditService.
func NewAuditService(accounts AccountRepository, entries EntryRepository) *AuditService {
	return &AuditService{
		accounts: accounts,
		entries:  entries,
	}
}

// AuditResult is the outcome of checking one account.
type AuditResult struct {
	AccountID       int64
	StoredBalance   decimal.Decimal
	ComputedBalance decimal.Decimal
	Difference      decimal.Decimal
	Consistent      bool
	CheckedAt       time.Time
}

// AuditAccount recomputes one account's balance from the entry log and
// compares it with the stored projection.
func (s *AuditService) AuditAccount(ctx context.Context, accountID int64) (*AuditResult, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, mapStorageError(err)
	}

	computed, err := s.entries.SignedSum(ctx, accountID)
	if err != nil {
		return nil, mapStorageError(err)
	}

	diff := account.Balance.Sub(computed)

	return &AuditResult{
		AccountID:       accountID,
		StoredBalance:   account.Balance,
		ComputedBalance: computed,
		Difference:      diff,
		Consistent:      diff.IsZero(),
		CheckedAt:       time.Now().UTC(),
	}, nil
}

// AuditReport summarizes an audit pass over the whole ledger.
type AuditReport struct {
	TotalAccounts      int
	ConsistentAccounts int
	Discrepancies      []*AuditResult
	CheckedAt          time.Time
}

const auditPageSize = 500

// AuditLedger audits every account and collects discrepancies.
func (s *AuditService) AuditLedger(ctx context.Context) (*AuditReport, error) {
	report := &AuditReport{
		Discrepancies: make([]*AuditResult, 0),
		CheckedAt:     time.Now().UTC(),
	}

	for offset := 0; ; offset += auditPageSize {
		accounts, err := s.accounts.List(ctx, auditPageSize, offset)
		if err != nil {
			return nil, mapStorageError(err)
		}
		if len(accounts) == 0 {
			break
		}

		for _, account := range accounts {
			result, err := s.AuditAccount(ctx, account.ID)
			if err != nil {
				return nil, fmt.Errorf("audit account %d: %w", account.ID, err)
			}

			report.TotalAccounts++
			if result.Consistent {
				report.ConsistentAccounts++
			} else {
				report.Discrepancies = append(report.Discrepancies, result)
			}
		}

		if len(accounts) < auditPageSize {
			break
		}
	}

	return report, nil
}
