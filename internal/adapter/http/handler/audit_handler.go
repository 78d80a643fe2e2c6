package handler

import (
	"context"
	"net/http"

	"github.com/corebank/ledger/internal/adapter/http/dto"
	"github.com/corebank/ledger/internal/infrastructure/metrics"
	"github.com/corebank/ledger/internal/ledger"
)

type auditService interface {
	AuditAccount(ctx context.Context, accountID int64) (*ledger.AuditResult, error)
	AuditLedger(ctx context.Context) (*ledger.AuditReport, error)
}

// AuditHandler handles balance consistency checks.
type AuditHandler struct {
	audits  auditService
	metrics *metrics.Metrics
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(audits auditService, m *metrics.Metrics) *AuditHandler {
	return &AuditHandler{audits: audits, metrics: m}
}

// Account audits a single account against its entry log.
func (h *AuditHandler) Account(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account ID", err.Error())
		return
	}

	result, err := h.audits.AuditAccount(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to audit account", err)
		return
	}

	h.metrics.AuditRuns.Inc()
	if !result.Consistent {
		h.metrics.AuditDiscrepancies.Inc()
	}

	writeJSON(w, http.StatusOK, dto.AuditResultFromLedger(result))
}

// Ledger audits every account and reports discrepancies.
func (h *AuditHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	report, err := h.audits.AuditLedger(r.Context())
	if err != nil {
		writeDomainError(w, "failed to audit ledger", err)
		return
	}

	h.metrics.AuditRuns.Inc()
	h.metrics.AuditDiscrepancies.Add(float64(len(report.Discrepancies)))

	writeJSON(w, http.StatusOK, dto.AuditReportFromLedger(report))
}
