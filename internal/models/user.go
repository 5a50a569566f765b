package models

// User is a row of the users table.
type User struct {
	UserID       string `db:"user_id"`
	Username     string `db:"username"`
	FullName     string `db:"full_name"`
	Role         string `db:"role"`
	PasswordHash string `db:"password_hash"`
	IsActive     bool   `db:"is_active"`
	AuditFields
}
