package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/student_savings_app/internal/apperrors"
	"github.com/SscSPs/student_savings_app/internal/core/domain"
	portsrepo "github.com/SscSPs/student_savings_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/student_savings_app/internal/core/ports/services"
	"github.com/SscSPs/student_savings_app/internal/dto"
	"github.com/SscSPs/student_savings_app/internal/utils"
	"github.com/google/uuid"
)

// systemActor is recorded as creator of records made outside a request.
const systemActor = "system"

// directoryService manages users, classes and profiles.
type directoryService struct {
	BaseService
	repo portsrepo.DirectoryRepositoryFacade
	now  func() time.Time
}

// NewDirectoryService creates a new directory service.
func NewDirectoryService(repo portsrepo.DirectoryRepositoryFacade) portssvc.DirectorySvcFacade {
	return &directoryService{repo: repo, now: time.Now}
}

var _ portssvc.DirectorySvcFacade = (*directoryService)(nil)

// newUser hashes the password and builds an active user.
func (s *directoryService) newUser(username, password, fullName string, role domain.Role, creatorID string) (domain.User, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}
	now := s.now()
	return domain.User{
		UserID:       uuid.NewString(),
		Username:     strings.TrimSpace(username),
		FullName:     strings.TrimSpace(fullName),
		Role:         role,
		PasswordHash: hash,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}, nil
}

// wrapRepoError passes domain errors through and marks everything else as storage failure.
func (s *directoryService) wrapRepoError(ctx context.Context, op string, err error, keyvals ...any) error {
	if isDomainError(err) {
		return err
	}
	s.LogError(ctx, err, "Directory operation failed: "+op, keyvals...)
	return storageError(op, err)
}

// CreateUser implements portssvc.UserSvc.
func (s *directoryService) CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorID string) (*domain.User, error) {
	user, err := s.newUser(req.Username, req.Password, req.FullName, domain.RoleAdmin, creatorID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveUser(ctx, user); err != nil {
		return nil, s.wrapRepoError(ctx, "create user", err, slog.String("username", user.Username))
	}
	s.LogInfo(ctx, "Administrator created", slog.String("user_id", user.UserID))
	return &user, nil
}

// GetUserByID implements portssvc.UserSvc.
func (s *directoryService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, s.wrapRepoError(ctx, "get user", err, slog.String("user_id", userID))
	}
	return user, nil
}

// GetUserByUsername implements portssvc.UserSvc.
func (s *directoryService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.repo.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, s.wrapRepoError(ctx, "get user by username", err)
	}
	return user, nil
}

// ListUsers implements portssvc.UserSvc.
func (s *directoryService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if limit <= 0 || offset < 0 {
		return nil, fmt.Errorf("%w: limit must be positive and offset non-negative", apperrors.ErrValidation)
	}
	users, err := s.repo.FindUsers(ctx, limit, offset)
	if err != nil {
		return nil, s.wrapRepoError(ctx, "list users", err)
	}
	return users, nil
}

// SetUserActive implements portssvc.UserSvc.
func (s *directoryService) SetUserActive(ctx context.Context, userID string, active bool, actorID string) (*domain.User, error) {
	if userID == actorID && !active {
		return nil, fmt.Errorf("%w: you cannot deactivate your own account", apperrors.ErrValidation)
	}
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.IsActive = active
	user.LastUpdatedAt = s.now()
	user.LastUpdatedBy = actorID
	if err := s.repo.UpdateUser(ctx, *user); err != nil {
		return nil, s.wrapRepoError(ctx, "update user", err, slog.String("user_id", userID))
	}
	s.LogInfo(ctx, "User activation changed", slog.String("user_id", userID), slog.Bool("active", active))
	return user, nil
}

// EnsureAdmin implements portssvc.UserSvc.
func (s *directoryService) EnsureAdmin(ctx context.Context, username, password string) (*domain.User, bool, error) {
	existing, err := s.repo.FindUserByUsername(ctx, username)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, s.wrapRepoError(ctx, "find bootstrap admin", err)
	}
	user, err := s.CreateUser(ctx, dto.CreateUserRequest{Username: username, Password: password, FullName: "Administrator"}, systemActor)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// CreateClass implements portssvc.ClassSvc.
func (s *directoryService) CreateClass(ctx context.Context, req dto.CreateClassRequest, creatorID string) (*domain.Class, error) {
	now := s.now()
	class := domain.Class{
		ClassID:     uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
	if class.Name == "" {
		return nil, fmt.Errorf("%w: class name is required", apperrors.ErrValidation)
	}
	if err := s.repo.SaveClass(ctx, class); err != nil {
		return nil, s.wrapRepoError(ctx, "create class", err, slog.String("name", class.Name))
	}
	return &class, nil
}

// ListClasses implements portssvc.ClassSvc.
func (s *directoryService) ListClasses(ctx context.Context) ([]domain.Class, error) {
	classes, err := s.repo.ListClasses(ctx)
	if err != nil {
		return nil, s.wrapRepoError(ctx, "list classes", err)
	}
	return classes, nil
}

// CreateStudent implements portssvc.ProfileSvc.
func (s *directoryService) CreateStudent(ctx context.Context, req dto.CreateStudentRequest, creatorID string) (*domain.StudentProfile, error) {
	var className string
	if req.ClassID != nil {
		class, err := s.repo.FindClassByID(ctx, *req.ClassID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: class %s does not exist", apperrors.ErrValidation, *req.ClassID)
			}
			return nil, s.wrapRepoError(ctx, "find class", err)
		}
		className = class.Name
	}

	user, err := s.newUser(req.Username, req.Password, req.FullName, domain.RoleStudent, creatorID)
	if err != nil {
		return nil, err
	}
	profile := domain.StudentProfile{
		StudentID:     user.UserID,
		Username:      user.Username,
		FullName:      user.FullName,
		StudentNumber: strings.TrimSpace(req.StudentNumber),
		ClassID:       req.ClassID,
		ClassName:     className,
		IsActive:      true,
		CreatedAt:     user.CreatedAt,
	}
	account := domain.NewBalanceAccount(user.UserID, user.CreatedAt)
	profile.Balance = account.CurrentBalance

	if err := s.repo.SaveStudent(ctx, user, profile, account); err != nil {
		return nil, s.wrapRepoError(ctx, "create student", err, slog.String("username", user.Username))
	}
	s.LogInfo(ctx, "Student enrolled", slog.String("student_id", profile.StudentID))
	return &profile, nil
}

// GetStudent implements portssvc.ProfileSvc.
func (s *directoryService) GetStudent(ctx context.Context, studentID string) (*domain.StudentProfile, error) {
	profile, err := s.repo.FindStudentByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrStudentNotFound, studentID)
		}
		return nil, s.wrapRepoError(ctx, "get student", err, slog.String("student_id", studentID))
	}
	return profile, nil
}

// ListStudents implements portssvc.ProfileSvc.
func (s *directoryService) ListStudents(ctx context.Context, classID *string) ([]domain.StudentProfile, error) {
	students, err := s.repo.ListStudents(ctx, classID)
	if err != nil {
		return nil, s.wrapRepoError(ctx, "list students", err)
	}
	return students, nil
}

// CreateStaff implements portssvc.ProfileSvc.
func (s *directoryService) CreateStaff(ctx context.Context, req dto.CreateStaffRequest, creatorID string) (*domain.StaffProfile, error) {
	user, err := s.newUser(req.Username, req.Password, req.FullName, domain.RoleStaff, creatorID)
	if err != nil {
		return nil, err
	}
	profile := domain.StaffProfile{
		StaffID:   user.UserID,
		Username:  user.Username,
		FullName:  user.FullName,
		Position:  strings.TrimSpace(req.Position),
		IsActive:  true,
		CreatedAt: user.CreatedAt,
	}
	if err := s.repo.SaveStaff(ctx, user, profile); err != nil {
		return nil, s.wrapRepoError(ctx, "create staff", err, slog.String("username", user.Username))
	}
	s.LogInfo(ctx, "Staff member registered", slog.String("staff_id", profile.StaffID))
	return &profile, nil
}

// GetStaff implements portssvc.ProfileSvc.
func (s *directoryService) GetStaff(ctx context.Context, staffID string) (*domain.StaffProfile, error) {
	profile, err := s.repo.FindStaffByID(ctx, staffID)
	if err != nil {
		return nil, s.wrapRepoError(ctx, "get staff", err, slog.String("staff_id", staffID))
	}
	return profile, nil
}

// ListStaff implements portssvc.ProfileSvc.
func (s *directoryService) ListStaff(ctx context.Context) ([]domain.StaffProfile, error) {
	staff, err := s.repo.ListStaff(ctx)
	if err != nil {
		return nil, s.wrapRepoError(ctx, "list staff", err)
	}
	return staff, nil
}
