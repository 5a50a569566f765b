package repositories

import (
	"context"

	"github.com/SscSPs/student_savings_app/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByUsername retrieves a user by their unique username.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindUsers retrieves a paginated list of users.
	FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser updates an existing user's details and active flag.
	UpdateUser(ctx context.Context, user domain.User) error
}

// ClassRepository defines operations for classes
type ClassRepository interface {
	SaveClass(ctx context.Context, class domain.Class) error
	FindClassByID(ctx context.Context, classID string) (*domain.Class, error)
	ListClasses(ctx context.Context) ([]domain.Class, error)
}

// ProfileRepository defines operations for student and staff profiles
type ProfileRepository interface {
	// SaveStudent persists the user, the student profile and the student's
	// zero-balance account in one transaction.
	SaveStudent(ctx context.Context, user domain.User, profile domain.StudentProfile, account domain.BalanceAccount) error

	// SaveStaff persists the user and the staff profile in one transaction.
	SaveStaff(ctx context.Context, user domain.User, profile domain.StaffProfile) error

	FindStudentByID(ctx context.Context, studentID string) (*domain.StudentProfile, error)

	// ListStudents lists students, optionally restricted to one class.
	ListStudents(ctx context.Context, classID *string) ([]domain.StudentProfile, error)

	FindStaffByID(ctx context.Context, staffID string) (*domain.StaffProfile, error)
	ListStaff(ctx context.Context) ([]domain.StaffProfile, error)
}

// DirectoryRepositoryFacade combines all directory-related repository interfaces
type DirectoryRepositoryFacade interface {
	UserReader
	UserWriter
	ClassRepository
	ProfileRepository
}
