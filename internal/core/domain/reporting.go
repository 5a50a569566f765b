package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StudentLedgerRow is a ledger entry as seen from a student's history,
// enriched with the name of the staff member who posted it.
type StudentLedgerRow struct {
	LedgerEntry
	StaffName string `json:"staffName"`
}

// StaffLedgerRow is a ledger entry as seen from a staff member's history,
// enriched with the affected student's name and class.
type StaffLedgerRow struct {
	LedgerEntry
	StudentName string `json:"studentName"`
	ClassName   string `json:"className"`
}

// ReportRow is a ledger entry in an administrator report.
type ReportRow struct {
	LedgerEntry
	StudentName string `json:"studentName"`
	ClassName   string `json:"className"`
	StaffName   string `json:"staffName"`
}

// ReportFilter narrows a transaction report. Nil fields impose no constraint.
// StartDate and EndDate name calendar days; both bounds are inclusive.
type ReportFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	StudentID *string
	ClassID   *string
	Type      *EntryType
}

// TimeRange is an inclusive [From, To] window on transaction_date.
// A nil bound is open.
type TimeRange struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether t falls inside the range, bounds included.
func (r TimeRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

// EntryQuery is the storage-level form of a report: a transaction_date window
// plus the optional student, class and type constraints.
type EntryQuery struct {
	Range     TimeRange
	StudentID *string
	ClassID   *string
	Type      *EntryType
}

// DayBounds returns the first and last millisecond of the calendar day that
// contains date in loc: [00:00:00.000, 23:59:59.999].
func DayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := date.In(loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	end := time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), loc)
	return start, end
}

// TypeTotal is the count and summed amount of entries of one type.
type TypeTotal struct {
	Type   EntryType
	Count  int64
	Amount decimal.Decimal
}

// DailySummary aggregates the entries of one calendar day.
type DailySummary struct {
	Date             time.Time       `json:"date"`
	TotalCount       int64           `json:"totalCount"`
	DepositCount     int64           `json:"depositCount"`
	WithdrawalCount  int64           `json:"withdrawalCount"`
	DepositAmount    decimal.Decimal `json:"depositAmount"`
	WithdrawalAmount decimal.Decimal `json:"withdrawalAmount"`
}

// NewDailySummary folds per-type totals into a summary. Unknown types are ignored.
func NewDailySummary(day time.Time, totals []TypeTotal) DailySummary {
	summary := DailySummary{
		Date:             day,
		DepositAmount:    decimal.Zero,
		WithdrawalAmount: decimal.Zero,
	}
	for _, t := range totals {
		switch t.Type {
		case Deposit:
			summary.DepositCount += t.Count
			summary.DepositAmount = summary.DepositAmount.Add(t.Amount)
		case Withdrawal:
			summary.WithdrawalCount += t.Count
			summary.WithdrawalAmount = summary.WithdrawalAmount.Add(t.Amount)
		default:
			continue
		}
		summary.TotalCount += t.Count
	}
	return summary
}
