package dto

import (
	"github.com/shopspring/decimal"
)

// TransferRequest represents a request to move funds between accounts.
type TransferRequest struct {
	FromAccountID int64           `json:"from_account_id"`
	ToAccountID   int64           `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
}

// DepositRequest represents a request to credit an account from outside
// the ledger.
type DepositRequest struct {
	AccountID   int64           `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

// WithdrawRequest represents a request to debit an account to outside
// the ledger.
type WithdrawRequest struct {
	AccountID   int64           `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}
