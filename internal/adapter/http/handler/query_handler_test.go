package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/corebank/ledger/internal/adapter/http/dto"
	"github.com/corebank/ledger/internal/domain"
)

type queryServiceStub struct {
	balanceFn    func(ctx context.Context, accountID int64) (decimal.Decimal, error)
	historyFn    func(ctx context.Context, accountID int64, filter domain.EntryFilter, page domain.Page) ([]*domain.Entry, error)
	searchFn     func(ctx context.Context, accountID int64, term string, page domain.Page) ([]*domain.Entry, error)
	entryFn      func(ctx context.Context, entryID int64) (*domain.Entry, error)
	statisticsFn func(ctx context.Context, accountID int64, r domain.DateRange) (*domain.Statistics, error)
}

func (s *queryServiceStub) GetBalance(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	return s.balanceFn(ctx, accountID)
}

func (s *queryServiceStub) GetHistory(ctx context.Context, accountID int64, filter domain.EntryFilter, page domain.Page) ([]*domain.Entry, error) {
	return s.historyFn(ctx, accountID, filter, page)
}

func (s *queryServiceStub) Search(ctx context.Context, accountID int64, term string, page domain.Page) ([]*domain.Entry, error) {
	return s.searchFn(ctx, accountID, term, page)
}

func (s *queryServiceStub) GetEntry(ctx context.Context, entryID int64) (*domain.Entry, error) {
	return s.entryFn(ctx, entryID)
}

func (s *queryServiceStub) GetStatistics(ctx context.Context, accountID int64, r domain.DateRange) (*domain.Statistics, error) {
	return s.statisticsFn(ctx, accountID, r)
}

func requestWithID(method, target, id string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestBalanceSuccess(t *testing.T) {
	h := NewQueryHandler(&queryServiceStub{
		balanceFn: func(ctx context.Context, accountID int64) (decimal.Decimal, error) {
			return decimal.RequireFromString("800.50"), nil
		},
	})

	rec := httptest.NewRecorder()
	h.Balance(rec, requestWithID(http.MethodGet, "/accounts/1/balance", "1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.BalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.AccountID != 1 || !resp.Balance.Equal(decimal.RequireFromString("800.50")) {
		t.Fatalf("unexpected balance response: %+v", resp)
	}
}

func TestBalanceUnknownAccount(t *testing.T) {
	h := NewQueryHandler(&queryServiceStub{
		balanceFn: func(ctx context.Context, accountID int64) (decimal.Decimal, error) {
			return decimal.Zero, domain.ErrAccountNotFound
		},
	})

	rec := httptest.NewRecorder()
	h.Balance(rec, requestWithID(http.MethodGet, "/accounts/99/balance", "99"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestBalanceRejectsMalformedID(t *testing.T) {
	h := NewQueryHandler(&queryServiceStub{})

	rec := httptest.NewRecorder()
	h.Balance(rec, requestWithID(http.MethodGet, "/accounts/abc/balance", "abc"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHistoryPassesFilterAndPagination(t *testing.T) {
	var gotFilter domain.EntryFilter
	var gotPage domain.Page

	h := NewQueryHandler(&queryServiceStub{
		historyFn: func(ctx context.Context, accountID int64, filter domain.EntryFilter, page domain.Page) ([]*domain.Entry, error) {
			gotFilter, gotPage = filter, page
			return []*domain.Entry{}, nil
		},
	})

	target := "/accounts/1/entries?kind=deposit&start=2026-01-01T00:00:00Z&limit=5&offset=10"
	rec := httptest.NewRecorder()
	h.History(rec, requestWithID(http.MethodGet, target, "1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotFilter.Kind != domain.EntryKindDeposit {
		t.Fatalf("expected deposit filter, got %q", gotFilter.Kind)
	}
	if gotFilter.StartDate == nil || !gotFilter.StartDate.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected start date filter, got %v", gotFilter.StartDate)
	}
	if gotPage.Limit != 5 || gotPage.Offset != 10 {
		t.Fatalf("expected pagination (5,10), got %+v", gotPage)
	}
}

func TestHistoryRejectsMalformedDate(t *testing.T) {
	h := NewQueryHandler(&queryServiceStub{})

	rec := httptest.NewRecorder()
	h.History(rec, requestWithID(http.MethodGet, "/accounts/1/entries?start=yesterday", "1"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSearchRequiresTerm(t *testing.T) {
	h := NewQueryHandler(&queryServiceStub{})

	rec := httptest.NewRecorder()
	h.Search(rec, requestWithID(http.MethodGet, "/accounts/1/entries/search", "1"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSearchPassesTerm(t *testing.T) {
	var gotTerm string

	h := NewQueryHandler(&queryServiceStub{
		searchFn: func(ctx context.Context, accountID int64, term string, page domain.Page) ([]*domain.Entry, error) {
			gotTerm = term
			return []*domain.Entry{}, nil
		},
	})

	rec := httptest.NewRecorder()
	h.Search(rec, requestWithID(http.MethodGet, "/accounts/1/entries/search?q=rent", "1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotTerm != "rent" {
		t.Fatalf("expected search term rent, got %q", gotTerm)
	}
}

func TestStatisticsSuccess(t *testing.T) {
	h := NewQueryHandler(&queryServiceStub{
		statisticsFn: func(ctx context.Context, accountID int64, r domain.DateRange) (*domain.Statistics, error) {
			return &domain.Statistics{
				TotalDeposits: decimal.NewFromInt(1000),
				EntryCount:    3,
			}, nil
		},
	})

	rec := httptest.NewRecorder()
	h.Statistics(rec, requestWithID(http.MethodGet, "/accounts/1/statistics", "1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.StatisticsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.TotalDeposits.Equal(decimal.NewFromInt(1000)) || resp.EntryCount != 3 {
		t.Fatalf("unexpected statistics: %+v", resp)
	}
}

func TestStatisticsInvalidRange(t *testing.T) {
	h := NewQueryHandler(&queryServiceStub{
		statisticsFn: func(ctx context.Context, accountID int64, r domain.DateRange) (*domain.Statistics, error) {
			return nil, domain.ErrInvalidDateRange
		},
	})

	rec := httptest.NewRecorder()
	h.Statistics(rec, requestWithID(http.MethodGet, "/accounts/1/statistics", "1"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEntryNotFound(t *testing.T) {
	h := NewQueryHandler(&queryServiceStub{
		entryFn: func(ctx context.Context, entryID int64) (*domain.Entry, error) {
			return nil, domain.ErrEntryNotFound
		},
	})

	rec := httptest.NewRecorder()
	h.Entry(rec, requestWithID(http.MethodGet, "/entries/10", "10"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
