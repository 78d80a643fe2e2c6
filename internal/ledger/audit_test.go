package ledger_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/corebank/ledger/internal/ledger"
	"github.com/corebank/ledger/internal/ledger/mocks"
)

func TestAuditAccountConsistent(t *testing.T) {
	store := mocks.NewStore()
	seedHistory(t, store)

	audit := ledger.NewAuditService(
		mocks.NewMockAccountRepository(store),
		mocks.NewMockEntryRepository(store),
	)

	for _, id := range []int64{1, 2} {
		result, err := audit.AuditAccount(context.Background(), id)
		if err != nil {
			t.Fatalf("audit account %d: %v", id, err)
		}
		if !result.Consistent {
			t.Errorf("account %d inconsistent: stored %s, computed %s",
				id, result.StoredBalance, result.ComputedBalance)
		}
	}
}

func TestAuditDetectsDrift(t *testing.T) {
	store := mocks.NewStore()
	seedHistory(t, store)

	// Corrupt the projection without touching the log.
	store.SeedAccount(1, decimal.NewFromInt(9999))

	audit := ledger.NewAuditService(
		mocks.NewMockAccountRepository(store),
		mocks.NewMockEntryRepository(store),
	)

	result, err := audit.AuditAccount(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Consistent {
		t.Fatal("expected drift to be detected")
	}
	if result.Difference.IsZero() {
		t.Error("expected non-zero difference")
	}
}

func TestAuditLedger(t *testing.T) {
	store := mocks.NewStore()
	seedHistory(t, store)
	store.SeedAccount(3, decimal.NewFromInt(123)) // no entries back this balance

	audit := ledger.NewAuditService(
		mocks.NewMockAccountRepository(store),
		mocks.NewMockEntryRepository(store),
	)

	report, err := audit.AuditLedger(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.TotalAccounts != 3 {
		t.Errorf("expected 3 accounts audited, got %d", report.TotalAccounts)
	}
	if report.ConsistentAccounts != 2 {
		t.Errorf("expected 2 consistent accounts, got %d", report.ConsistentAccounts)
	}
	if len(report.Discrepancies) != 1 || report.Discrepancies[0].AccountID != 3 {
		t.Errorf("expected account 3 flagged, got %+v", report.Discrepancies)
	}
}
