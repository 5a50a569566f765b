package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/student_savings_app/internal/core/domain"
	portssvc "github.com/SscSPs/student_savings_app/internal/core/ports/services"
	"github.com/SscSPs/student_savings_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) PostTransaction(ctx context.Context, staffID, studentID string, entryType domain.EntryType, amount decimal.Decimal, description string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, staffID, studentID, entryType, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerService) GetBalance(ctx context.Context, studentID string) (*domain.BalanceAccount, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceAccount), args.Error(1)
}

func (m *MockLedgerService) EntriesByStudent(ctx context.Context, studentID string) ([]domain.StudentLedgerRow, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StudentLedgerRow), args.Error(1)
}

func (m *MockLedgerService) EntriesByStaff(ctx context.Context, staffID string, date *time.Time) ([]domain.StaffLedgerRow, error) {
	args := m.Called(ctx, staffID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StaffLedgerRow), args.Error(1)
}

func (m *MockLedgerService) Report(ctx context.Context, filter domain.ReportFilter) ([]domain.ReportRow, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReportRow), args.Error(1)
}

func (m *MockLedgerService) DailySummary(ctx context.Context, date time.Time) (*domain.DailySummary, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailySummary), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock DirectoryService ---
type MockDirectoryService struct {
	mock.Mock
}

func (m *MockDirectoryService) CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorID string) (*domain.User, error) {
	args := m.Called(ctx, req, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockDirectoryService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockDirectoryService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockDirectoryService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockDirectoryService) SetUserActive(ctx context.Context, userID string, active bool, actorID string) (*domain.User, error) {
	args := m.Called(ctx, userID, active, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockDirectoryService) EnsureAdmin(ctx context.Context, username, password string) (*domain.User, bool, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.User), args.Bool(1), args.Error(2)
}

func (m *MockDirectoryService) CreateClass(ctx context.Context, req dto.CreateClassRequest, creatorID string) (*domain.Class, error) {
	args := m.Called(ctx, req, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Class), args.Error(1)
}

func (m *MockDirectoryService) ListClasses(ctx context.Context) ([]domain.Class, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Class), args.Error(1)
}

func (m *MockDirectoryService) CreateStudent(ctx context.Context, req dto.CreateStudentRequest, creatorID string) (*domain.StudentProfile, error) {
	args := m.Called(ctx, req, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StudentProfile), args.Error(1)
}

func (m *MockDirectoryService) GetStudent(ctx context.Context, studentID string) (*domain.StudentProfile, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StudentProfile), args.Error(1)
}

func (m *MockDirectoryService) ListStudents(ctx context.Context, classID *string) ([]domain.StudentProfile, error) {
	args := m.Called(ctx, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StudentProfile), args.Error(1)
}

func (m *MockDirectoryService) CreateStaff(ctx context.Context, req dto.CreateStaffRequest, creatorID string) (*domain.StaffProfile, error) {
	args := m.Called(ctx, req, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StaffProfile), args.Error(1)
}

func (m *MockDirectoryService) GetStaff(ctx context.Context, staffID string) (*domain.StaffProfile, error) {
	args := m.Called(ctx, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StaffProfile), args.Error(1)
}

func (m *MockDirectoryService) ListStaff(ctx context.Context) ([]domain.StaffProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StaffProfile), args.Error(1)
}

var _ portssvc.DirectorySvcFacade = (*MockDirectoryService)(nil)

// --- Mock AuthService ---
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

var _ portssvc.AuthSvc = (*MockAuthService)(nil)
