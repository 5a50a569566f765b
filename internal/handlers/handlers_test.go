package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/student_savings_app/internal/apperrors"
	"github.com/SscSPs/student_savings_app/internal/core/domain"
	portssvc "github.com/SscSPs/student_savings_app/internal/core/ports/services"
	"github.com/SscSPs/student_savings_app/internal/dto"
	"github.com/SscSPs/student_savings_app/internal/handlers"
	"github.com/SscSPs/student_savings_app/internal/platform/config"
	"github.com/SscSPs/student_savings_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	testSecret = "handler-test-secret"
	adminID    = "admin-1"
	staffID    = "staff-1"
	studentID  = "student-1"
)

type HandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	cfg           *config.Config
	ledger        *MockLedgerService
	directory     *MockDirectoryService
	auth          *MockAuthService
	jakarta       *time.Location
	transactionAt time.Time
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	dto.RegisterValidators()

	jakarta, err := time.LoadLocation("Asia/Jakarta")
	suite.Require().NoError(err)
	suite.jakarta = jakarta
	suite.transactionAt = time.Date(2024, 5, 2, 9, 15, 0, 0, jakarta)

	suite.cfg = &config.Config{
		JWTSecret:      testSecret,
		IsProduction:   true,
		ReportLocation: jakarta,
		LoginRateLimit: "1000-M",
	}
	suite.ledger = new(MockLedgerService)
	suite.directory = new(MockDirectoryService)
	suite.auth = new(MockAuthService)

	suite.router = gin.New()
	err = handlers.RegisterRoutes(suite.router, suite.cfg, &portssvc.ServiceContainer{
		Ledger:    suite.ledger,
		Directory: suite.directory,
		Auth:      suite.auth,
	})
	suite.Require().NoError(err)
}

func (suite *HandlerTestSuite) TearDownTest() {
	suite.ledger.AssertExpectations(suite.T())
	suite.directory.AssertExpectations(suite.T())
	suite.auth.AssertExpectations(suite.T())
}

// generateTestToken creates a signed JWT for userID with role.
func (suite *HandlerTestSuite) generateTestToken(userID string, role domain.Role) string {
	token, _, err := utils.GenerateJWT(userID, role, testSecret, time.Hour, "handler-test", time.Now())
	suite.Require().NoError(err)
	return token
}

func (suite *HandlerTestSuite) do(method, url string, role domain.Role, userID string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID, role))
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) decode(w *httptest.ResponseRecorder, v any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func amountEq(s string) any {
	want := decimal.RequireFromString(s)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}

func (suite *HandlerTestSuite) postedEntry() *domain.LedgerEntry {
	return &domain.LedgerEntry{
		ID:              7,
		StudentID:       studentID,
		StaffID:         staffID,
		Type:            domain.Deposit,
		Amount:          decimal.RequireFromString("50"),
		BalanceBefore:   decimal.RequireFromString("100"),
		BalanceAfter:    decimal.RequireFromString("150"),
		Description:     "weekly savings",
		TransactionDate: suite.transactionAt,
		CreatedAt:       suite.transactionAt,
	}
}

func (suite *HandlerTestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", "", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func (suite *HandlerTestSuite) TestPostTransaction_Success() {
	suite.ledger.On("PostTransaction", mock.Anything, staffID, studentID, domain.Deposit, amountEq("50.00"), "weekly savings").
		Return(suite.postedEntry(), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions", domain.RoleStaff, staffID, gin.H{
		"studentID":   studentID,
		"type":        "DEPOSIT",
		"amount":      50.00,
		"description": "weekly savings",
	})

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
	suite.Contains(w.Body.String(), `"balanceAfter":150.00`)
	suite.Contains(w.Body.String(), `"amount":50.00`)

	var resp dto.LedgerEntryResponse
	suite.decode(w, &resp)
	suite.Equal(int64(7), resp.ID)
	suite.Equal(staffID, resp.StaffID)
	suite.Equal(domain.Deposit, resp.Type)
}

func (suite *HandlerTestSuite) TestPostTransaction_RejectsOtherRoles() {
	body := gin.H{"studentID": studentID, "type": "DEPOSIT", "amount": 10}

	suite.Equal(http.StatusForbidden, suite.do(http.MethodPost, "/api/v1/transactions", domain.RoleStudent, studentID, body).Code)
	suite.Equal(http.StatusForbidden, suite.do(http.MethodPost, "/api/v1/transactions", domain.RoleAdmin, adminID, body).Code)
	suite.Equal(http.StatusUnauthorized, suite.do(http.MethodPost, "/api/v1/transactions", "", "", body).Code)
	suite.ledger.AssertNotCalled(suite.T(), "PostTransaction")
}

func (suite *HandlerTestSuite) TestPostTransaction_InvalidRequests() {
	tests := []struct {
		name string
		body gin.H
	}{
		{name: "three decimal places", body: gin.H{"studentID": studentID, "type": "DEPOSIT", "amount": 1.005}},
		{name: "negative amount", body: gin.H{"studentID": studentID, "type": "WITHDRAWAL", "amount": -5}},
		{name: "zero amount", body: gin.H{"studentID": studentID, "type": "DEPOSIT", "amount": 0}},
		{name: "unknown type", body: gin.H{"studentID": studentID, "type": "REFUND", "amount": 5}},
		{name: "missing student", body: gin.H{"type": "DEPOSIT", "amount": 5}},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.do(http.MethodPost, "/api/v1/transactions", domain.RoleStaff, staffID, tt.body)
			suite.Equal(http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
	suite.ledger.AssertNotCalled(suite.T(), "PostTransaction")
}

func (suite *HandlerTestSuite) TestPostTransaction_ErrorMapping() {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{name: "insufficient balance", err: apperrors.ErrInsufficientBalance, wantStatus: http.StatusUnprocessableEntity, wantBody: "insufficient balance"},
		{name: "student not found", err: fmt.Errorf("%w: %s", apperrors.ErrStudentNotFound, studentID), wantStatus: http.StatusNotFound, wantBody: "student balance account does not exist"},
		{name: "invalid amount", err: apperrors.ErrInvalidAmount, wantStatus: http.StatusBadRequest, wantBody: "amount must be a positive value"},
		{name: "storage failure", err: apperrors.NewAppError(500, "failed to commit transaction", fmt.Errorf("connection reset")), wantStatus: http.StatusInternalServerError, wantBody: "Failed to post transaction"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.ledger.On("PostTransaction", mock.Anything, staffID, studentID, domain.Withdrawal, amountEq("30"), "").
				Return(nil, tt.err).Once()

			w := suite.do(http.MethodPost, "/api/v1/transactions", domain.RoleStaff, staffID, gin.H{
				"studentID": studentID, "type": "WITHDRAWAL", "amount": 30,
			})

			suite.Equal(tt.wantStatus, w.Code)
			suite.Contains(w.Body.String(), tt.wantBody)
			suite.NotContains(w.Body.String(), "connection reset")
		})
	}
}

func (suite *HandlerTestSuite) TestListMine_WithDate() {
	wantDay := time.Date(2024, 5, 2, 0, 0, 0, 0, suite.jakarta)
	suite.ledger.On("EntriesByStaff", mock.Anything, staffID, mock.MatchedBy(func(d *time.Time) bool {
		return d != nil && d.Equal(wantDay)
	})).Return([]domain.StaffLedgerRow{
		{LedgerEntry: *suite.postedEntry(), StudentName: "Budi", ClassName: "7A"},
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/transactions/mine?date=2024-05-02", domain.RoleStaff, staffID, nil)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.ListStaffEntriesResponse
	suite.decode(w, &resp)
	suite.Require().Len(resp.Entries, 1)
	suite.Equal("Budi", resp.Entries[0].StudentName)
	suite.Equal("7A", resp.Entries[0].ClassName)
}

func (suite *HandlerTestSuite) TestListMine_WithoutDate() {
	suite.ledger.On("EntriesByStaff", mock.Anything, staffID, (*time.Time)(nil)).
		Return([]domain.StaffLedgerRow{}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/transactions/mine", domain.RoleStaff, staffID, nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"entries":[]}`, w.Body.String())
}

func (suite *HandlerTestSuite) TestListMine_BadDate() {
	w := suite.do(http.MethodGet, "/api/v1/transactions/mine?date=02-05-2024", domain.RoleStaff, staffID, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), dto.DateLayout)
}

func (suite *HandlerTestSuite) TestStudentBalance() {
	suite.ledger.On("GetBalance", mock.Anything, studentID).Return(&domain.BalanceAccount{
		StudentID:      studentID,
		CurrentBalance: decimal.RequireFromString("150.5"),
		UpdatedAt:      suite.transactionAt,
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/me/balance", domain.RoleStudent, studentID, nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"currentBalance":150.50`)
}

func (suite *HandlerTestSuite) TestStudentBalance_StaffIsForbidden() {
	w := suite.do(http.MethodGet, "/api/v1/me/balance", domain.RoleStaff, staffID, nil)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestStudentHistory() {
	rows := []domain.StudentLedgerRow{{LedgerEntry: *suite.postedEntry(), StaffName: "Ibu Sari"}}
	suite.ledger.On("EntriesByStudent", mock.Anything, studentID).Return(rows, nil).Twice()

	own := suite.do(http.MethodGet, "/api/v1/me/transactions", domain.RoleStudent, studentID, nil)
	lookup := suite.do(http.MethodGet, "/api/v1/students/"+studentID+"/transactions", domain.RoleStaff, staffID, nil)

	for _, w := range []*httptest.ResponseRecorder{own, lookup} {
		suite.Equal(http.StatusOK, w.Code)
		var resp dto.ListStudentEntriesResponse
		suite.decode(w, &resp)
		suite.Require().Len(resp.Entries, 1)
		suite.Equal("Ibu Sari", resp.Entries[0].StaffName)
	}

	// Students may not look up other students.
	w := suite.do(http.MethodGet, "/api/v1/students/other/transactions", domain.RoleStudent, studentID, nil)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestGetStudent_NotFound() {
	suite.directory.On("GetStudent", mock.Anything, "missing").
		Return(nil, fmt.Errorf("%w: missing", apperrors.ErrStudentNotFound)).Once()

	w := suite.do(http.MethodGet, "/api/v1/students/missing", domain.RoleAdmin, adminID, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestListStudents_ByClass() {
	suite.directory.On("ListStudents", mock.Anything, mock.MatchedBy(func(c *string) bool {
		return c != nil && *c == "class-7a"
	})).Return([]domain.StudentProfile{{StudentID: studentID, FullName: "Budi", Balance: decimal.RequireFromString("12")}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/students?classID=class-7a", domain.RoleStaff, staffID, nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"balance":12.00`)
}

func (suite *HandlerTestSuite) TestReport_Filters() {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, suite.jakarta)
	end := time.Date(2024, 5, 3, 0, 0, 0, 0, suite.jakarta)
	suite.ledger.On("Report", mock.Anything, mock.MatchedBy(func(f domain.ReportFilter) bool {
		return f.StartDate != nil && f.StartDate.Equal(start) &&
			f.EndDate != nil && f.EndDate.Equal(end) &&
			f.StudentID == nil &&
			f.ClassID != nil && *f.ClassID == "class-7a" &&
			f.Type != nil && *f.Type == domain.Withdrawal
	})).Return([]domain.ReportRow{
		{LedgerEntry: *suite.postedEntry(), StudentName: "Budi", ClassName: "7A", StaffName: "Ibu Sari"},
	}, nil).Once()

	w := suite.do(http.MethodGet,
		"/api/v1/reports/transactions?startDate=2024-05-01&endDate=2024-05-03&classID=class-7a&type=WITHDRAWAL",
		domain.RoleAdmin, adminID, nil)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.ReportResponse
	suite.decode(w, &resp)
	suite.Equal(1, resp.Count)
	suite.Equal("Ibu Sari", resp.Entries[0].StaffName)
}

func (suite *HandlerTestSuite) TestReport_InvalidInput() {
	suite.Equal(http.StatusBadRequest,
		suite.do(http.MethodGet, "/api/v1/reports/transactions?type=REFUND", domain.RoleAdmin, adminID, nil).Code)
	suite.Equal(http.StatusBadRequest,
		suite.do(http.MethodGet, "/api/v1/reports/transactions?startDate=yesterday", domain.RoleAdmin, adminID, nil).Code)

	suite.ledger.On("Report", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: endDate is before startDate", apperrors.ErrValidation)).Once()
	w := suite.do(http.MethodGet, "/api/v1/reports/transactions?startDate=2024-05-03&endDate=2024-05-01", domain.RoleAdmin, adminID, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestReport_StaffIsForbidden() {
	w := suite.do(http.MethodGet, "/api/v1/reports/transactions", domain.RoleStaff, staffID, nil)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestDailySummary() {
	day := time.Date(2024, 5, 2, 0, 0, 0, 0, suite.jakarta)
	suite.ledger.On("DailySummary", mock.Anything, mock.MatchedBy(func(d time.Time) bool { return d.Equal(day) })).
		Return(&domain.DailySummary{
			Date:             day,
			TotalCount:       3,
			DepositCount:     2,
			WithdrawalCount:  1,
			DepositAmount:    decimal.RequireFromString("150"),
			WithdrawalAmount: decimal.RequireFromString("30"),
		}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/daily-summary?date=2024-05-02", domain.RoleAdmin, adminID, nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{
		"date": "2024-05-02",
		"totalCount": 3,
		"depositCount": 2,
		"withdrawalCount": 1,
		"depositAmount": 150.00,
		"withdrawalAmount": 30.00
	}`, w.Body.String())
}

func (suite *HandlerTestSuite) TestStaffTransactionsForAdmin() {
	suite.ledger.On("EntriesByStaff", mock.Anything, "staff-9", (*time.Time)(nil)).
		Return([]domain.StaffLedgerRow{}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/staff/staff-9/transactions", domain.RoleAdmin, adminID, nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestLogin() {
	user := domain.User{UserID: staffID, Username: "sari", FullName: "Ibu Sari", Role: domain.RoleStaff, IsActive: true}
	suite.auth.On("Login", mock.Anything, "sari", "correct-horse").
		Return(&domain.Session{Token: "jwt", ExpiresAt: suite.transactionAt, User: user}, nil).Once()
	suite.auth.On("Login", mock.Anything, "sari", "wrong").
		Return(nil, apperrors.ErrUnauthorized).Once()

	w := suite.do(http.MethodPost, "/api/v1/auth/login", "", "", gin.H{"username": "sari", "password": "correct-horse"})
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.LoginResponse
	suite.decode(w, &resp)
	suite.Equal("jwt", resp.Token)
	suite.Equal(domain.RoleStaff, resp.User.Role)

	w = suite.do(http.MethodPost, "/api/v1/auth/login", "", "", gin.H{"username": "sari", "password": "wrong"})
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/auth/login", "", "", gin.H{"username": "sari"})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestMe() {
	suite.directory.On("GetUserByID", mock.Anything, studentID).
		Return(&domain.User{UserID: studentID, Username: "budi", Role: domain.RoleStudent, IsActive: true}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/me", domain.RoleStudent, studentID, nil)
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.UserResponse
	suite.decode(w, &resp)
	suite.Equal("budi", resp.Username)
}

func (suite *HandlerTestSuite) TestCreateStudent() {
	classID := "class-7a"
	req := dto.CreateStudentRequest{
		Username: "budi", Password: "password123", FullName: "Budi", StudentNumber: "S-001", ClassID: &classID,
	}
	suite.directory.On("CreateStudent", mock.Anything, req, adminID).
		Return(&domain.StudentProfile{StudentID: studentID, Username: "budi", StudentNumber: "S-001", ClassID: &classID, Balance: decimal.Zero}, nil).Once()
	suite.directory.On("CreateStudent", mock.Anything, mock.Anything, adminID).
		Return(nil, fmt.Errorf("%w: student_profiles_student_number_key", apperrors.ErrDuplicate)).Once()

	w := suite.do(http.MethodPost, "/api/v1/students", domain.RoleAdmin, adminID, req)
	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
	suite.Contains(w.Body.String(), `"balance":0.00`)

	w = suite.do(http.MethodPost, "/api/v1/students", domain.RoleAdmin, adminID, req)
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/students", domain.RoleStaff, staffID, req)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestSetUserActive() {
	suite.directory.On("SetUserActive", mock.Anything, staffID, false, adminID).
		Return(&domain.User{UserID: staffID, Role: domain.RoleStaff, IsActive: false}, nil).Once()

	w := suite.do(http.MethodPatch, "/api/v1/users/"+staffID+"/active", domain.RoleAdmin, adminID, gin.H{"isActive": false})
	suite.Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.do(http.MethodPatch, "/api/v1/users/"+staffID+"/active", domain.RoleAdmin, adminID, gin.H{})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestListUsers_Paging() {
	suite.directory.On("ListUsers", mock.Anything, 20, 0).Return([]domain.User{}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/users", domain.RoleAdmin, adminID, nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/users?limit=500", domain.RoleAdmin, adminID, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestClasses() {
	suite.directory.On("ListClasses", mock.Anything).Return([]domain.Class{{ClassID: "class-7a", Name: "7A"}}, nil).Once()
	suite.directory.On("CreateClass", mock.Anything, dto.CreateClassRequest{Name: "7B"}, adminID).
		Return(&domain.Class{ClassID: "class-7b", Name: "7B"}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/classes", domain.RoleStaff, staffID, nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/classes", domain.RoleAdmin, adminID, gin.H{"name": "7B"})
	suite.Equal(http.StatusCreated, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/classes", domain.RoleStaff, staffID, gin.H{"name": "7C"})
	suite.Equal(http.StatusForbidden, w.Code)
}

func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
