package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType indicates whether a ledger entry adds to or takes from a balance.
type EntryType string

const (
	Deposit    EntryType = "DEPOSIT"
	Withdrawal EntryType = "WITHDRAWAL"
)

// IsValid reports whether t is one of the known entry types.
func (t EntryType) IsValid() bool {
	return t == Deposit || t == Withdrawal
}

// LedgerEntry is the immutable record of one balance-affecting event.
// Entries are created once by the transaction poster and never updated or removed.
type LedgerEntry struct {
	ID              int64           `json:"id"`        // Assigned by storage, monotonically increasing
	StudentID       string          `json:"studentID"` // FK -> balance_accounts.student_id
	StaffID         string          `json:"staffID"`   // FK -> staff_profiles.staff_id
	Type            EntryType       `json:"type"`
	Amount          decimal.Decimal `json:"amount"` // Always positive
	BalanceBefore   decimal.Decimal `json:"balanceBefore"`
	BalanceAfter    decimal.Decimal `json:"balanceAfter"`
	Description     string          `json:"description"`
	TransactionDate time.Time       `json:"transactionDate"` // Business-effective time used for reporting
	CreatedAt       time.Time       `json:"createdAt"`
}

// SignedAmount returns the amount with the sign of its effect on the balance.
func (e LedgerEntry) SignedAmount() decimal.Decimal {
	if e.Type == Withdrawal {
		return e.Amount.Neg()
	}
	return e.Amount
}

// IsConsistent checks the per-entry arithmetic invariant:
// balance_after = balance_before ± amount, and balance_after >= 0.
func (e LedgerEntry) IsConsistent() bool {
	if !e.Type.IsValid() || !e.Amount.IsPositive() || e.BalanceAfter.IsNegative() {
		return false
	}
	return e.BalanceBefore.Add(e.SignedAmount()).Equal(e.BalanceAfter)
}

// EntryPostedEvent is published after a ledger entry has been committed.
type EntryPostedEvent struct {
	EntryID      int64           `json:"entryID"`
	StudentID    string          `json:"studentID"`
	StaffID      string          `json:"staffID"`
	Type         EntryType       `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balanceAfter"`
	PostedAt     time.Time       `json:"postedAt"`
}

// NewEntryPostedEvent builds the event for a committed entry.
func NewEntryPostedEvent(e LedgerEntry) EntryPostedEvent {
	return EntryPostedEvent{
		EntryID:      e.ID,
		StudentID:    e.StudentID,
		StaffID:      e.StaffID,
		Type:         e.Type,
		Amount:       e.Amount,
		BalanceAfter: e.BalanceAfter,
		PostedAt:     e.CreatedAt,
	}
}
