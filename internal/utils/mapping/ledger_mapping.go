package mapping

import (
	"github.com/SscSPs/student_savings_app/internal/core/domain"
	"github.com/SscSPs/student_savings_app/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		ID:              d.ID,
		StudentID:       d.StudentID,
		StaffID:         d.StaffID,
		Type:            string(d.Type),
		Amount:          d.Amount,
		BalanceBefore:   d.BalanceBefore,
		BalanceAfter:    d.BalanceAfter,
		Description:     d.Description,
		TransactionDate: d.TransactionDate,
		CreatedAt:       d.CreatedAt,
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		ID:              m.ID,
		StudentID:       m.StudentID,
		StaffID:         m.StaffID,
		Type:            domain.EntryType(m.Type),
		Amount:          m.Amount,
		BalanceBefore:   m.BalanceBefore,
		BalanceAfter:    m.BalanceAfter,
		Description:     m.Description,
		TransactionDate: m.TransactionDate,
		CreatedAt:       m.CreatedAt,
	}
}

// ToDomainBalanceAccount converts a model BalanceAccount to a domain BalanceAccount
func ToDomainBalanceAccount(m models.BalanceAccount) domain.BalanceAccount {
	return domain.BalanceAccount{
		StudentID:      m.StudentID,
		CurrentBalance: m.CurrentBalance,
		UpdatedAt:      m.UpdatedAt,
	}
}

// ToStudentLedgerRow converts a joined ledger row to a student history row
func ToStudentLedgerRow(m models.LedgerRow) domain.StudentLedgerRow {
	return domain.StudentLedgerRow{
		LedgerEntry: ToDomainLedgerEntry(m.LedgerEntry),
		StaffName:   m.StaffName.String,
	}
}

// ToStaffLedgerRow converts a joined ledger row to a staff history row
func ToStaffLedgerRow(m models.LedgerRow) domain.StaffLedgerRow {
	return domain.StaffLedgerRow{
		LedgerEntry: ToDomainLedgerEntry(m.LedgerEntry),
		StudentName: m.StudentName.String,
		ClassName:   m.ClassName.String,
	}
}

// ToReportRow converts a joined ledger row to a report row
func ToReportRow(m models.LedgerRow) domain.ReportRow {
	return domain.ReportRow{
		LedgerEntry: ToDomainLedgerEntry(m.LedgerEntry),
		StudentName: m.StudentName.String,
		ClassName:   m.ClassName.String,
		StaffName:   m.StaffName.String,
	}
}

// ToDomainTypeTotals converts aggregate rows to domain TypeTotals
func ToDomainTypeTotals(ms []models.TypeTotal) []domain.TypeTotal {
	ds := make([]domain.TypeTotal, len(ms))
	for i, m := range ms {
		ds[i] = domain.TypeTotal{Type: domain.EntryType(m.Type), Count: m.Count, Amount: m.Amount}
	}
	return ds
}
