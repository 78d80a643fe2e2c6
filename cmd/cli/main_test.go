package main

import (
	"strings"
	"testing"
)

func TestFormatAuditResult(t *testing.T) {
	consistent := formatAuditResult(auditResult{
		AccountID:       1,
		StoredBalance:   "100",
		ComputedBalance: "100",
		Consistent:      true,
	})
	if !strings.Contains(consistent, "CONSISTENT") {
		t.Fatalf("expected consistent status, got %q", consistent)
	}

	drift := formatAuditResult(auditResult{
		AccountID:       2,
		StoredBalance:   "100",
		ComputedBalance: "90",
		Difference:      "10",
		Consistent:      false,
	})
	if !strings.Contains(drift, "DRIFT") || !strings.Contains(drift, "10") {
		t.Fatalf("expected drift with difference, got %q", drift)
	}
}

func TestFormatAuditReport(t *testing.T) {
	clean := formatAuditReport(auditReport{TotalAccounts: 3, ConsistentAccounts: 3})
	if !strings.Contains(clean, "Ledger is consistent") {
		t.Fatalf("expected clean summary, got %q", clean)
	}

	dirty := formatAuditReport(auditReport{
		TotalAccounts:      3,
		ConsistentAccounts: 2,
		Discrepancies: []auditResult{
			{AccountID: 3, StoredBalance: "50", ComputedBalance: "40"},
		},
	})
	if !strings.Contains(dirty, "account 3") {
		t.Fatalf("expected discrepancy line, got %q", dirty)
	}
}
