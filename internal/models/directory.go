package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Class is a row of the classes table.
type Class struct {
	ClassID     string `db:"class_id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	AuditFields
}

// StudentProfile is a student_profiles row joined with its user, class and
// balance account.
type StudentProfile struct {
	StudentID     string          `db:"student_id"`
	Username      string          `db:"username"`
	FullName      string          `db:"full_name"`
	StudentNumber string          `db:"student_number"`
	ClassID       sql.NullString  `db:"class_id"`
	ClassName     sql.NullString  `db:"class_name"`
	Balance       decimal.Decimal `db:"current_balance"`
	IsActive      bool            `db:"is_active"`
	CreatedAt     time.Time       `db:"created_at"`
}

// StaffProfile is a staff_profiles row joined with its user.
type StaffProfile struct {
	StaffID   string    `db:"staff_id"`
	Username  string    `db:"username"`
	FullName  string    `db:"full_name"`
	Position  string    `db:"position"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}
