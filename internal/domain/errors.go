package domain

import (
	"errors"
	"fmt"
)

// The ledger core translates every failure into this taxonomy before it
// crosses the component boundary. Callers discriminate with errors.Is;
// nothing downstream may match on message text.
var (
	// ErrInvalidAmount covers non-positive amounts and amounts with more
	// than two decimal places. Non-retriable.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrLimitExceeded means the amount is above the per-operation cap.
	// Non-retriable.
	ErrLimitExceeded = errors.New("amount exceeds operation limit")

	// ErrSelfTransfer means source and destination are the same account.
	ErrSelfTransfer = errors.New("cannot transfer to the same account")

	// ErrAccountNotFound means a referenced account does not exist.
	// Wrapped with sender/recipient context where the distinction matters.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInsufficientFunds means the debit would take the balance below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrConflict is transient lock contention that survived the engine's
	// internal retries. Retriable by the caller.
	ErrConflict = errors.New("transaction conflict")

	// ErrTimeout means storage did not complete within the deadline.
	// Retriable; no partial mutation occurred.
	ErrTimeout = errors.New("operation timed out")

	// ErrEntryNotFound means an entry lookup missed.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrInvalidDescription means the description exceeds the length bound.
	ErrInvalidDescription = errors.New("invalid description")

	// ErrInvalidDateRange means endDate is not after startDate.
	ErrInvalidDateRange = errors.New("end date must be after start date")

	// ErrAccountNotEmpty means a close was attempted on an account that
	// still holds funds.
	ErrAccountNotEmpty = errors.New("account balance must be zero to close")

	// ErrInvalidFilter means a history filter referenced an unknown
	// entry kind.
	ErrInvalidFilter = errors.New("invalid history filter")
)

// SenderNotFound wraps ErrAccountNotFound for the debit party.
func SenderNotFound(id int64) error {
	return fmt.Errorf("%w: sender account %d", ErrAccountNotFound, id)
}

// RecipientNotFound wraps ErrAccountNotFound for the credit party.
func RecipientNotFound(id int64) error {
	return fmt.Errorf("%w: recipient account %d", ErrAccountNotFound, id)
}

// Retriable reports whether the caller may retry the operation as-is.
func Retriable(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrTimeout)
}
