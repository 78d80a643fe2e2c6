package handler

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/corebank/ledger/internal/adapter/http/dto"
	"github.com/corebank/ledger/internal/domain"
)

type queryService interface {
	GetBalance(ctx context.Context, accountID int64) (decimal.Decimal, error)
	GetHistory(ctx context.Context, accountID int64, filter domain.EntryFilter, page domain.Page) ([]*domain.Entry, error)
	Search(ctx context.Context, accountID int64, term string, page domain.Page) ([]*domain.Entry, error)
	GetEntry(ctx context.Context, entryID int64) (*domain.Entry, error)
	GetStatistics(ctx context.Context, accountID int64, r domain.DateRange) (*domain.Statistics, error)
}

// QueryHandler handles read-only ledger queries.
type QueryHandler struct {
	queries queryService
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(queries queryService) *QueryHandler {
	return &QueryHandler{queries: queries}
}

// Balance returns an account's current balance.
func (h *QueryHandler) Balance(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account ID", err.Error())
		return
	}

	balance, err := h.queries.GetBalance(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{AccountID: id, Balance: balance})
}

// History lists an account's entries, newest first.
func (h *QueryHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account ID", err.Error())
		return
	}

	filter, err := parseEntryFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter", err.Error())
		return
	}

	page := domain.Page{
		Limit:  parseIntQuery(r, "limit", 0),
		Offset: parseIntQuery(r, "offset", 0),
	}

	entries, err := h.queries.GetHistory(r.Context(), id, filter, page)
	if err != nil {
		writeDomainError(w, "failed to list entries", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// Search finds an account's entries matching a free-text term.
func (h *QueryHandler) Search(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account ID", err.Error())
		return
	}

	term := r.URL.Query().Get("q")
	if term == "" {
		writeError(w, http.StatusBadRequest, "missing search term", "q parameter is required")
		return
	}

	page := domain.Page{
		Limit:  parseIntQuery(r, "limit", 0),
		Offset: parseIntQuery(r, "offset", 0),
	}

	entries, err := h.queries.Search(r.Context(), id, term, page)
	if err != nil {
		writeDomainError(w, "failed to search entries", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// Entry returns a single ledger entry.
func (h *QueryHandler) Entry(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entry ID", err.Error())
		return
	}

	entry, err := h.queries.GetEntry(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get entry", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// Statistics aggregates an account's history over an optional range.
func (h *QueryHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account ID", err.Error())
		return
	}

	start, err := parseTimeQuery(r, "start")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start date", err.Error())
		return
	}
	end, err := parseTimeQuery(r, "end")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end date", err.Error())
		return
	}

	stats, err := h.queries.GetStatistics(r.Context(), id, domain.DateRange{Start: start, End: end})
	if err != nil {
		writeDomainError(w, "failed to compute statistics", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatisticsFromDomain(stats))
}

// parseEntryFilter reads kind and date bounds from query parameters.
func parseEntryFilter(r *http.Request) (domain.EntryFilter, error) {
	var filter domain.EntryFilter

	filter.Kind = domain.EntryKind(r.URL.Query().Get("kind"))

	start, err := parseTimeQuery(r, "start")
	if err != nil {
		return domain.EntryFilter{}, err
	}
	end, err := parseTimeQuery(r, "end")
	if err != nil {
		return domain.EntryFilter{}, err
	}

	filter.StartDate = start
	filter.EndDate = end

	return filter, nil
}
