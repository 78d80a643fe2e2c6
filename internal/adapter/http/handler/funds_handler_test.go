package handler

import (
	"bytes"
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

type fundsServiceStub struct {
	depositFn  func(ctx context.Context, accountID int64, amount decimal.Decimal, description string) (*ledger.Receipt, error)
	withdrawFn func(ctx context.Context, accountID int64, amount decimal.Decimal, description string) (*ledger.Receipt, error)
}

func (s *fundsServiceStub) Deposit(ctx context.Context, accountID int64, amount decimal.Decimal, description string) (*ledger.Receipt, error) {
	return s.depositFn(ctx, accountID, amount, description)
}

func (s *fundsServiceStub) Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal, description string) (*ledger.Receipt, error) {
	return s.withdrawFn(ctx, accountID, amount, description)
}

func TestDepositSuccess(t *testing.T) {
	m := testMetrics()
	h := NewFundsHandler(&fundsServiceStub{
		depositFn: func(ctx context.Context, accountID int64, amount decimal.Decimal, description string) (*ledger.Receipt, error) {
			return &ledger.Receipt{EntryID: 3, NewBalance: decimal.NewFromInt(1000), OccurredAt: time.Now().UTC()}, nil
		},
	}, m)

	body, _ := json.Marshal(dto.DepositRequest{AccountID: 1, Amount: decimal.NewFromInt(1000)})

	rec := httptest.NewRecorder()
	h.Deposit(rec, httptest.NewRequest(http.MethodPost, "/deposits", bytes.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := testutil.ToFloat64(m.DepositsCompleted); got != 1 {
		t.Fatalf("expected deposit counter 1, got %v", got)
	}
}

func TestWithdrawInsufficientFundsMapsTo422(t *testing.T) {
	h := NewFundsHandler(&fundsServiceStub{
		withdrawFn: func(ctx context.Context, accountID int64, amount decimal.Decimal, description string) (*ledger.Receipt, error) {
			return nil, domain.ErrInsufficientFunds
		},
	}, testMetrics())

	body, _ := json.Marshal(dto.WithdrawRequest{AccountID: 1, Amount: decimal.NewFromInt(200)})

	rec := httptest.NewRecorder()
	h.Withdraw(rec, httptest.NewRequest(http.MethodPost, "/withdrawals", bytes.NewReader(body)))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestWithdrawLimitExceededMapsTo400(t *testing.T) {
	h := NewFundsHandler(&fundsServiceStub{
		withdrawFn: func(ctx context.Context, accountID int64, amount decimal.Decimal, description string) (*ledger.Receipt, error) {
			return nil, domain.ErrLimitExceeded
		},
	}, testMetrics())

	body, _ := json.Marshal(dto.WithdrawRequest{AccountID: 1, Amount: decimal.NewFromInt(30000)})

	rec := httptest.NewRecorder()
	h.Withdraw(rec, httptest.NewRequest(http.MethodPost, "/withdrawals", bytes.NewReader(body)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDepositInvalidBody(t *testing.T) {
	h := NewFundsHandler(&fundsServiceStub{}, testMetrics())

	rec := httptest.NewRecorder()
	h.Deposit(rec, httptest.NewRequest(http.MethodPost, "/deposits", bytes.NewReader([]byte("nope"))))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
