package repositories

import (
	"context"

	"github.com/SscSPs/student_savings_app/internal/core/domain"
)

// BalanceAccountReader defines read operations for balance accounts
type BalanceAccountReader interface {
	// FindBalanceAccount retrieves the balance account of a student.
	FindBalanceAccount(ctx context.Context, studentID string) (*domain.BalanceAccount, error)
}

// LedgerReader defines read operations for ledger entries. Every method
// returns rows newest first (transaction_date, then id, descending).
type LedgerReader interface {
	// FindEntriesByStudent retrieves all entries of one student.
	FindEntriesByStudent(ctx context.Context, studentID string) ([]domain.StudentLedgerRow, error)

	// FindEntriesByStaff retrieves entries posted by one staff member whose
	// transaction_date falls in the given range.
	FindEntriesByStaff(ctx context.Context, staffID string, window domain.TimeRange) ([]domain.StaffLedgerRow, error)

	// FindEntries retrieves entries matching every constraint of q.
	FindEntries(ctx context.Context, q domain.EntryQuery) ([]domain.ReportRow, error)

	// SumEntriesByType counts and sums entries per type within the range.
	SumEntriesByType(ctx context.Context, window domain.TimeRange) ([]domain.TypeTotal, error)
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces
type LedgerRepositoryFacade interface {
	BalanceAccountReader
	LedgerReader
	AccountUnitOfWork
}
