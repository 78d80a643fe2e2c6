package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ledger-cli",
		Short: "Ledger CLI tool",
		Long:  `A command line interface for the account ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the ledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	auditCmd := &cobra.Command{
		Use:   "audit [account-id]",
		Short: "Check balance consistency against the entry log",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return auditAccount(args[0])
			}
			return auditLedger()
		},
	}

	balanceCmd := &cobra.Command{
		Use:   "balance <account-id>",
		Short: "Show an account's current balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showBalance(args[0])
		},
	}

	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(balanceCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func getJSON(path string, out any) error {
	client := &http.Client{Timeout: timeout}

	resp, err := client.Get(baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

type auditResult struct {
	AccountID       int64  `json:"account_id"`
	StoredBalance   string `json:"stored_balance"`
	ComputedBalance string `json:"computed_balance"`
	Difference      string `json:"difference"`
	Consistent      bool   `json:"consistent"`
}

type auditReport struct {
	TotalAccounts      int           `json:"total_accounts"`
	ConsistentAccounts int           `json:"consistent_accounts"`
	Discrepancies      []auditResult `json:"discrepancies"`
}

func auditAccount(id string) error {
	var result auditResult
	if err := getJSON("/api/v1/accounts/"+id+"/audit", &result); err != nil {
		return err
	}

	fmt.Print(formatAuditResult(result))
	if !result.Consistent {
		os.Exit(1)
	}
	return nil
}

func auditLedger() error {
	var report auditReport
	if err := getJSON("/api/v1/audit", &report); err != nil {
		return err
	}

	fmt.Print(formatAuditReport(report))
	if len(report.Discrepancies) > 0 {
		os.Exit(1)
	}
	return nil
}

func showBalance(id string) error {
	var balance struct {
		AccountID int64  `json:"account_id"`
		Balance   string `json:"balance"`
	}
	if err := getJSON("/api/v1/accounts/"+id+"/balance", &balance); err != nil {
		return err
	}

	fmt.Printf("Account %d: %s\n", balance.AccountID, balance.Balance)
	return nil
}

func formatAuditResult(r auditResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Account %d\n", r.AccountID)
	fmt.Fprintf(&b, "  Stored balance:   %s\n", r.StoredBalance)
	fmt.Fprintf(&b, "  Computed balance: %s\n", r.ComputedBalance)
	if r.Consistent {
		b.WriteString("  Status: CONSISTENT\n")
	} else {
		fmt.Fprintf(&b, "  Status: DRIFT (difference %s)\n", r.Difference)
	}

	return b.String()
}

func formatAuditReport(r auditReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Audited %d accounts, %d consistent\n", r.TotalAccounts, r.ConsistentAccounts)
	for _, d := range r.Discrepancies {
		fmt.Fprintf(&b, "  account %d: stored %s, computed %s\n", d.AccountID, d.StoredBalance, d.ComputedBalance)
	}
	if len(r.Discrepancies) == 0 {
		b.WriteString("Ledger is consistent\n")
	}

	return b.String()
}
