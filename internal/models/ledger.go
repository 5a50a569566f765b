package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// BalanceAccount is a row of the balance_accounts table.
type BalanceAccount struct {
	StudentID      string          `db:"student_id"`
	CurrentBalance decimal.Decimal `db:"current_balance"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

// LedgerEntry is a row of the ledger_entries table.
type LedgerEntry struct {
	ID              int64           `db:"id"`
	StudentID       string          `db:"student_id"`
	StaffID         string          `db:"staff_id"`
	Type            string          `db:"type"`
	Amount          decimal.Decimal `db:"amount"`
	BalanceBefore   decimal.Decimal `db:"balance_before"`
	BalanceAfter    decimal.Decimal `db:"balance_after"`
	Description     string          `db:"description"`
	TransactionDate time.Time       `db:"transaction_date"`
	CreatedAt       time.Time       `db:"created_at"`
}

// LedgerRow is a ledger entry joined with the names shown in histories and
// reports. Names are nullable because the joins are outer joins.
type LedgerRow struct {
	LedgerEntry
	StudentName sql.NullString `db:"student_name"`
	ClassName   sql.NullString `db:"class_name"`
	StaffName   sql.NullString `db:"staff_name"`
}

// TypeTotal is one row of a per-type aggregate.
type TypeTotal struct {
	Type   string          `db:"type"`
	Count  int64           `db:"entry_count"`
	Amount decimal.Decimal `db:"total_amount"`
}
