package mapping_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/SscSPs/student_savings_app/internal/core/domain"
	"github.com/SscSPs/student_savings_app/internal/models"
	"github.com/SscSPs/student_savings_app/internal/utils/mapping"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNullStringConversions(t *testing.T) {
	assert.Equal(t, sql.NullString{}, mapping.ToNullString(nil))
	classID := "class-1"
	assert.Equal(t, sql.NullString{String: "class-1", Valid: true}, mapping.ToNullString(&classID))

	assert.Nil(t, mapping.FromNullString(sql.NullString{}))
	assert.Equal(t, "class-1", *mapping.FromNullString(sql.NullString{String: "class-1", Valid: true}))
}

func TestToReportRow_NullNamesBecomeEmpty(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	row := models.LedgerRow{
		LedgerEntry: models.LedgerEntry{
			ID:              7,
			StudentID:       "stu-1",
			StaffID:         "staff-1",
			Type:            "WITHDRAWAL",
			Amount:          decimal.RequireFromString("30.00"),
			BalanceBefore:   decimal.RequireFromString("100.00"),
			BalanceAfter:    decimal.RequireFromString("70.00"),
			TransactionDate: at,
			CreatedAt:       at,
		},
		StudentName: sql.NullString{String: "Ayu", Valid: true},
	}

	report := mapping.ToReportRow(row)

	assert.Equal(t, domain.Withdrawal, report.Type)
	assert.Equal(t, "Ayu", report.StudentName)
	assert.Empty(t, report.ClassName)
	assert.Empty(t, report.StaffName)
	assert.True(t, report.IsConsistent())
}

func TestUserRoundTripKeepsRoleAndActivity(t *testing.T) {
	user := domain.User{UserID: "u-1", Username: "budi", FullName: "Budi", Role: domain.RoleStaff, IsActive: true}
	assert.Equal(t, user, mapping.ToDomainUser(mapping.ToModelUser(user)))
}
