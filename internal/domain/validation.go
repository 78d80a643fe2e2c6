package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Per-operation amount caps in major units. The values mirror the
// operational limits the bank runs with; Limits lets deployments
// override them through configuration.
const (
	DefaultMaxTransfer   = 10_000
	DefaultMaxDeposit    = 50_000
	DefaultMaxWithdrawal = 25_000

	MaxDescriptionLength = 255
)

// Limits holds the per-operation amount caps.
type Limits struct {
	MaxTransfer   decimal.Decimal
	MaxDeposit    decimal.Decimal
	MaxWithdrawal decimal.Decimal
}

// DefaultLimits returns the standard operation caps.
func DefaultLimits() Limits {
	return Limits{
		MaxTransfer:   decimal.NewFromInt(DefaultMaxTransfer),
		MaxDeposit:    decimal.NewFromInt(DefaultMaxDeposit),
		MaxWithdrawal: decimal.NewFromInt(DefaultMaxWithdrawal),
	}
}

// ValidateAmount checks that amount is positive, minor-unit exact (at
// most two decimal places) and within the given cap. The positivity and
// precision checks fail with ErrInvalidAmount, the cap with
// ErrLimitExceeded, in that order.
func ValidateAmount(amount, max decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: must be positive, got %s", ErrInvalidAmount, amount)
	}

	if !amount.Equal(amount.Truncate(2)) {
		return fmt.Errorf("%w: at most 2 decimal places, got %s", ErrInvalidAmount, amount)
	}

	if amount.GreaterThan(max) {
		return fmt.Errorf("%w: maximum is %s, got %s", ErrLimitExceeded, max, amount)
	}

	return nil
}

// ValidateDescription checks the free-text description length bound.
func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrInvalidDescription, MaxDescriptionLength)
	}
	return nil
}

// ValidateDateRange checks that the range, when both ends are given, is
// strictly increasing.
func ValidateDateRange(r DateRange) error {
	if r.Start != nil && r.End != nil && !r.End.After(*r.Start) {
		return ErrInvalidDateRange
	}
	return nil
}
