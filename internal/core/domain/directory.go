package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Class groups students for display and report filtering.
type Class struct {
	ClassID     string `json:"classID"`
	Name        string `json:"name"`
	Description string `json:"description"`
	AuditFields
}

// StudentProfile is the student side of a user. StudentID equals the user's ID
// and keys the student's BalanceAccount.
type StudentProfile struct {
	StudentID     string          `json:"studentID"`
	Username      string          `json:"username"`
	FullName      string          `json:"fullName"`
	StudentNumber string          `json:"studentNumber"`
	ClassID       *string         `json:"classID,omitempty"`
	ClassName     string          `json:"className"`
	Balance       decimal.Decimal `json:"balance"` // Read-only copy of the balance account
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// StaffProfile is the staff side of a user. StaffID equals the user's ID and
// is recorded on every ledger entry the staff member authorizes.
type StaffProfile struct {
	StaffID   string    `json:"staffID"`
	Username  string    `json:"username"`
	FullName  string    `json:"fullName"`
	Position  string    `json:"position"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}
