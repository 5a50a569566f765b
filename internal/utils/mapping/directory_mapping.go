package mapping

import (
	"database/sql"

	"github.com/SscSPs/student_savings_app/internal/core/domain"
	"github.com/SscSPs/student_savings_app/internal/models"
)

// ToModelClass converts a domain Class to a model Class
func ToModelClass(d domain.Class) models.Class {
	return models.Class{
		ClassID:     d.ClassID,
		Name:        d.Name,
		Description: d.Description,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainClass converts a model Class to a domain Class
func ToDomainClass(m models.Class) domain.Class {
	return domain.Class{
		ClassID:     m.ClassID,
		Name:        m.Name,
		Description: m.Description,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainStudentProfile converts a joined student row to a domain StudentProfile
func ToDomainStudentProfile(m models.StudentProfile) domain.StudentProfile {
	return domain.StudentProfile{
		StudentID:     m.StudentID,
		Username:      m.Username,
		FullName:      m.FullName,
		StudentNumber: m.StudentNumber,
		ClassID:       FromNullString(m.ClassID),
		ClassName:     m.ClassName.String,
		Balance:       m.Balance,
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt,
	}
}

// ToDomainStaffProfile converts a joined staff row to a domain StaffProfile
func ToDomainStaffProfile(m models.StaffProfile) domain.StaffProfile {
	return domain.StaffProfile{
		StaffID:   m.StaffID,
		Username:  m.Username,
		FullName:  m.FullName,
		Position:  m.Position,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
	}
}

// ToNullString converts an optional string to sql.NullString.
func ToNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// FromNullString converts sql.NullString to an optional string.
func FromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
