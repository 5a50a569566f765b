package services

import (
	"context"

	"github.com/SscSPs/student_savings_app/internal/core/domain"
	"github.com/SscSPs/student_savings_app/internal/dto"
)

// UserSvc defines operations on login accounts.
type UserSvc interface {
	// CreateUser creates an administrator.
	CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorID string) (*domain.User, error)

	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// ListUsers retrieves a paginated list of users.
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)

	// SetUserActive enables or disables a user's login.
	SetUserActive(ctx context.Context, userID string, active bool, actorID string) (*domain.User, error)

	// EnsureAdmin creates the administrator named username unless a user with
	// that name exists. The bool reports whether a user was created.
	EnsureAdmin(ctx context.Context, username, password string) (*domain.User, bool, error)
}

// ClassSvc defines operations on classes.
type ClassSvc interface {
	CreateClass(ctx context.Context, req dto.CreateClassRequest, creatorID string) (*domain.Class, error)
	ListClasses(ctx context.Context) ([]domain.Class, error)
}

// ProfileSvc defines operations on student and staff profiles.
type ProfileSvc interface {
	// CreateStudent creates the user, the student profile and a zero balance
	// account in one step.
	CreateStudent(ctx context.Context, req dto.CreateStudentRequest, creatorID string) (*domain.StudentProfile, error)
	GetStudent(ctx context.Context, studentID string) (*domain.StudentProfile, error)
	ListStudents(ctx context.Context, classID *string) ([]domain.StudentProfile, error)

	CreateStaff(ctx context.Context, req dto.CreateStaffRequest, creatorID string) (*domain.StaffProfile, error)
	GetStaff(ctx context.Context, staffID string) (*domain.StaffProfile, error)
	ListStaff(ctx context.Context) ([]domain.StaffProfile, error)
}

// DirectorySvcFacade combines all directory service interfaces.
type DirectorySvcFacade interface {
	UserSvc
	ClassSvc
	ProfileSvc
}
