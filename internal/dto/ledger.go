package dto

import (
	"time"

	"github.com/SscSPs/student_savings_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-day format accepted by every date query parameter.
const DateLayout = "2006-01-02"

// PostTransactionRequest defines the payload for recording a deposit or withdrawal.
type PostTransactionRequest struct {
	StudentID   string           `json:"studentID" binding:"required"`
	Type        domain.EntryType `json:"type" binding:"required,oneof=DEPOSIT WITHDRAWAL"`
	Amount      decimal.Decimal  `json:"amount" binding:"required,money"`
	Description string           `json:"description" binding:"max=255"`
}

// StaffEntriesParams defines query parameters for a staff member's history.
type StaffEntriesParams struct {
	Date string `form:"date"` // Optional, YYYY-MM-DD
}

// ReportParams defines query parameters for the transaction report.
type ReportParams struct {
	StartDate string `form:"startDate"` // Optional, YYYY-MM-DD, inclusive
	EndDate   string `form:"endDate"`   // Optional, YYYY-MM-DD, inclusive
	StudentID string `form:"studentID"`
	ClassID   string `form:"classID"`
	Type      string `form:"type" binding:"omitempty,oneof=DEPOSIT WITHDRAWAL"`
}

// LedgerEntryResponse defines the data returned for a ledger entry.
type LedgerEntryResponse struct {
	ID              int64            `json:"id"`
	StudentID       string           `json:"studentID"`
	StaffID         string           `json:"staffID"`
	Type            domain.EntryType `json:"type"`
	Amount          Money            `json:"amount"`
	BalanceBefore   Money            `json:"balanceBefore"`
	BalanceAfter    Money            `json:"balanceAfter"`
	Description     string           `json:"description"`
	TransactionDate time.Time        `json:"transactionDate"`
	CreatedAt       time.Time        `json:"createdAt"`
}

// StudentLedgerRowResponse is an entry in a student's history.
type StudentLedgerRowResponse struct {
	LedgerEntryResponse
	StaffName string `json:"staffName"`
}

// StaffLedgerRowResponse is an entry in a staff member's history.
type StaffLedgerRowResponse struct {
	LedgerEntryResponse
	StudentName string `json:"studentName"`
	ClassName   string `json:"className"`
}

// ReportRowResponse is an entry in an administrator report.
type ReportRowResponse struct {
	LedgerEntryResponse
	StudentName string `json:"studentName"`
	ClassName   string `json:"className"`
	StaffName   string `json:"staffName"`
}

// ListStudentEntriesResponse wraps a student's history.
type ListStudentEntriesResponse struct {
	Entries []StudentLedgerRowResponse `json:"entries"`
}

// ListStaffEntriesResponse wraps a staff member's history.
type ListStaffEntriesResponse struct {
	Entries []StaffLedgerRowResponse `json:"entries"`
}

// ReportResponse wraps the filtered report rows.
type ReportResponse struct {
	Entries []ReportRowResponse `json:"entries"`
	Count   int                 `json:"count"`
}

// BalanceResponse defines the data returned for a balance account.
type BalanceResponse struct {
	StudentID      string    `json:"studentID"`
	CurrentBalance Money     `json:"currentBalance"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// DailySummaryResponse defines the aggregates of one calendar day.
type DailySummaryResponse struct {
	Date             string `json:"date"`
	TotalCount       int64  `json:"totalCount"`
	DepositCount     int64  `json:"depositCount"`
	WithdrawalCount  int64  `json:"withdrawalCount"`
	DepositAmount    Money  `json:"depositAmount"`
	WithdrawalAmount Money  `json:"withdrawalAmount"`
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to LedgerEntryResponse DTO.
func ToLedgerEntryResponse(e domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:              e.ID,
		StudentID:       e.StudentID,
		StaffID:         e.StaffID,
		Type:            e.Type,
		Amount:          Money(e.Amount),
		BalanceBefore:   Money(e.BalanceBefore),
		BalanceAfter:    Money(e.BalanceAfter),
		Description:     e.Description,
		TransactionDate: e.TransactionDate,
		CreatedAt:       e.CreatedAt,
	}
}

// ToListStudentEntriesResponse converts student history rows to the response DTO.
func ToListStudentEntriesResponse(rows []domain.StudentLedgerRow) ListStudentEntriesResponse {
	entries := make([]StudentLedgerRowResponse, len(rows))
	for i, row := range rows {
		entries[i] = StudentLedgerRowResponse{
			LedgerEntryResponse: ToLedgerEntryResponse(row.LedgerEntry),
			StaffName:           row.StaffName,
		}
	}
	return ListStudentEntriesResponse{Entries: entries}
}

// ToListStaffEntriesResponse converts staff history rows to the response DTO.
func ToListStaffEntriesResponse(rows []domain.StaffLedgerRow) ListStaffEntriesResponse {
	entries := make([]StaffLedgerRowResponse, len(rows))
	for i, row := range rows {
		entries[i] = StaffLedgerRowResponse{
			LedgerEntryResponse: ToLedgerEntryResponse(row.LedgerEntry),
			StudentName:         row.StudentName,
			ClassName:           row.ClassName,
		}
	}
	return ListStaffEntriesResponse{Entries: entries}
}

// ToReportResponse converts report rows to the response DTO.
func ToReportResponse(rows []domain.ReportRow) ReportResponse {
	entries := make([]ReportRowResponse, len(rows))
	for i, row := range rows {
		entries[i] = ReportRowResponse{
			LedgerEntryResponse: ToLedgerEntryResponse(row.LedgerEntry),
			StudentName:         row.StudentName,
			ClassName:           row.ClassName,
			StaffName:           row.StaffName,
		}
	}
	return ReportResponse{Entries: entries, Count: len(entries)}
}

// ToBalanceResponse converts a domain.BalanceAccount to BalanceResponse DTO.
func ToBalanceResponse(a *domain.BalanceAccount) BalanceResponse {
	return BalanceResponse{
		StudentID:      a.StudentID,
		CurrentBalance: Money(a.CurrentBalance),
		UpdatedAt:      a.UpdatedAt,
	}
}

// ToDailySummaryResponse converts a domain.DailySummary to its response DTO.
func ToDailySummaryResponse(s *domain.DailySummary) DailySummaryResponse {
	return DailySummaryResponse{
		Date:             s.Date.Format(DateLayout),
		TotalCount:       s.TotalCount,
		DepositCount:     s.DepositCount,
		WithdrawalCount:  s.WithdrawalCount,
		DepositAmount:    Money(s.DepositAmount),
		WithdrawalAmount: Money(s.WithdrawalAmount),
	}
}
