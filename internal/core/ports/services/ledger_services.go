package services

import (
	"context"
	"time"

	"github.com/SscSPs/student_savings_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionPosterSvc records deposits and withdrawals.
type TransactionPosterSvc interface {
	// PostTransaction applies one deposit or withdrawal to a student's balance
	// and appends the matching ledger entry, atomically. Concurrent postings
	// against the same student are serialized.
	//
	// Errors: apperrors.ErrInvalidAmount, apperrors.ErrStudentNotFound,
	// apperrors.ErrInsufficientBalance, apperrors.ErrStorage. On any error
	// neither the balance nor the ledger changes.
	PostTransaction(ctx context.Context, staffID, studentID string, entryType domain.EntryType, amount decimal.Decimal, description string) (*domain.LedgerEntry, error)
}

// BalanceReaderSvc reads the current balance of a student.
type BalanceReaderSvc interface {
	GetBalance(ctx context.Context, studentID string) (*domain.BalanceAccount, error)
}

// LedgerQuerySvc answers read-only questions about the ledger.
// All sequences are ordered by transaction date, newest first.
type LedgerQuerySvc interface {
	// EntriesByStudent returns every entry of one student.
	EntriesByStudent(ctx context.Context, studentID string) ([]domain.StudentLedgerRow, error)

	// EntriesByStaff returns the entries a staff member posted, restricted to
	// the calendar day of date when it is given.
	EntriesByStaff(ctx context.Context, staffID string, date *time.Time) ([]domain.StaffLedgerRow, error)

	// Report returns the entries matching every filter that is set.
	Report(ctx context.Context, filter domain.ReportFilter) ([]domain.ReportRow, error)

	// DailySummary aggregates the entries of the calendar day of date.
	DailySummary(ctx context.Context, date time.Time) (*domain.DailySummary, error)
}

// LedgerSvcFacade combines all ledger service interfaces.
type LedgerSvcFacade interface {
	TransactionPosterSvc
	BalanceReaderSvc
	LedgerQuerySvc
}
