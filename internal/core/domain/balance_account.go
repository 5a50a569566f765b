package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/student_savings_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// BalanceAccount holds the current savings balance of one student profile.
// CurrentBalance never goes below zero and is only changed through Post.
type BalanceAccount struct {
	StudentID      string          `json:"studentID"` // PK, FK -> student_profiles.student_id
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// NewBalanceAccount returns the zero-balance account created alongside a student profile.
func NewBalanceAccount(studentID string, now time.Time) BalanceAccount {
	return BalanceAccount{
		StudentID:      studentID,
		CurrentBalance: decimal.Zero,
		UpdatedAt:      now,
	}
}

// ValidateAmount rejects non-positive amounts, amounts with more than two
// fractional digits and amounts above MaxAmount.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w (got %s)", apperrors.ErrInvalidAmount, amount.String())
	}
	if !amount.Equal(amount.Round(MoneyScale)) {
		return fmt.Errorf("%w (got %s)", apperrors.ErrInvalidAmount, amount.String())
	}
	if amount.GreaterThan(MaxAmount) {
		return fmt.Errorf("%w: %s exceeds %s", apperrors.ErrInvalidAmount, amount.String(), MaxAmount.StringFixed(MoneyScale))
	}
	return nil
}

// Post applies a deposit or withdrawal to the account and returns the ledger
// entry describing it. On error the account is left unchanged.
func (a *BalanceAccount) Post(staffID string, entryType EntryType, amount decimal.Decimal, description string, at time.Time) (LedgerEntry, error) {
	if err := ValidateAmount(amount); err != nil {
		return LedgerEntry{}, err
	}

	before := a.CurrentBalance
	var after decimal.Decimal
	switch entryType {
	case Deposit:
		after = before.Add(amount)
		if after.GreaterThan(MaxAmount) {
			return LedgerEntry{}, fmt.Errorf("%w: balance would exceed %s", apperrors.ErrValidation, MaxAmount.StringFixed(MoneyScale))
		}
	case Withdrawal:
		after = before.Sub(amount)
		if after.IsNegative() {
			return LedgerEntry{}, fmt.Errorf("%w: balance %s, withdrawal %s",
				apperrors.ErrInsufficientBalance, before.StringFixed(MoneyScale), amount.StringFixed(MoneyScale))
		}
	default:
		return LedgerEntry{}, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, entryType)
	}

	a.CurrentBalance = after
	a.UpdatedAt = at

	return LedgerEntry{
		StudentID:       a.StudentID,
		StaffID:         staffID,
		Type:            entryType,
		Amount:          amount,
		BalanceBefore:   before,
		BalanceAfter:    after,
		Description:     description,
		TransactionDate: at,
		CreatedAt:       at,
	}, nil
}
