package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"

	"github.com/corebank/ledger/internal/adapter/http/dto"
	"github.com/corebank/ledger/internal/domain"
	"github.com/corebank/ledger/internal/ledger"
)

type auditServiceStub struct {
	accountFn func(ctx context.Context, accountID int64) (*ledger.AuditResult, error)
	ledgerFn  func(ctx context.Context) (*ledger.AuditReport, error)
}

func (s *auditServiceStub) AuditAccount(ctx context.Context, accountID int64) (*ledger.AuditResult, error) {
	return s.accountFn(ctx, accountID)
}

func (s *auditServiceStub) AuditLedger(ctx context.Context) (*ledger.AuditReport, error) {
	return s.ledgerFn(ctx)
}

func TestAuditAccountReportsDrift(t *testing.T) {
	m := testMetrics()
	h := NewAuditHandler(&auditServiceStub{
		accountFn: func(ctx context.Context, accountID int64) (*ledger.AuditResult, error) {
			return &ledger.AuditResult{
				AccountID:       accountID,
				StoredBalance:   decimal.NewFromInt(100),
				ComputedBalance: decimal.NewFromInt(90),
				Difference:      decimal.NewFromInt(10),
				Consistent:      false,
				CheckedAt:       time.Now().UTC(),
			}, nil
		},
	}, m)

	rec := httptest.NewRecorder()
	h.Account(rec, requestWithID(http.MethodGet, "/accounts/1/audit", "1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.AuditResultResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Consistent || !resp.Difference.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("unexpected audit result: %+v", resp)
	}

	if got := testutil.ToFloat64(m.AuditDiscrepancies); got != 1 {
		t.Fatalf("expected discrepancy counter 1, got %v", got)
	}
}

func TestAuditAccountNotFound(t *testing.T) {
	h := NewAuditHandler(&auditServiceStub{
		accountFn: func(ctx context.Context, accountID int64) (*ledger.AuditResult, error) {
			return nil, domain.ErrAccountNotFound
		},
	}, testMetrics())

	rec := httptest.NewRecorder()
	h.Account(rec, requestWithID(http.MethodGet, "/accounts/9/audit", "9"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAuditLedgerSummary(t *testing.T) {
	h := NewAuditHandler(&auditServiceStub{
		ledgerFn: func(ctx context.Context) (*ledger.AuditReport, error) {
			return &ledger.AuditReport{
				TotalAccounts:      3,
				ConsistentAccounts: 2,
				Discrepancies: []*ledger.AuditResult{
					{AccountID: 3, Consistent: false},
				},
				CheckedAt: time.Now().UTC(),
			}, nil
		},
	}, testMetrics())

	rec := httptest.NewRecorder()
	h.Ledger(rec, httptest.NewRequest(http.MethodGet, "/audit", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.AuditReportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.TotalAccounts != 3 || resp.ConsistentAccounts != 2 || len(resp.Discrepancies) != 1 {
		t.Fatalf("unexpected report: %+v", resp)
	}
}
