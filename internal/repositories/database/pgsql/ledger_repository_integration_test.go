//go:build integration

package pgsql_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/student_savings_app/internal/apperrors"
	"github.com/SscSPs/student_savings_app/internal/core/domain"
	portsrepo "github.com/SscSPs/student_savings_app/internal/core/ports/repositories"
	"github.com/SscSPs/student_savings_app/internal/core/services"
	"github.com/SscSPs/student_savings_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/student_savings_app/pkg/database"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run with: TEST_DATABASE_URL=postgres://... go test -tags integration ./internal/repositories/database/pgsql/
func newIntegrationProvider(t *testing.T) portsrepo.RepositoryProvider {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	require.NoError(t, database.RunMigrations(dsn, "file://../../../../migrations", slog.New(slog.NewTextHandler(io.Discard, nil))))

	pool, err := database.NewPgxPool(context.Background(), dsn, true)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pgsql.NewRepositoryProvider(pool, 5*time.Second)
}

// seedPair creates a fresh student and staff member; ledger rows are append-only
// so every run works on its own IDs.
func seedPair(t *testing.T, repo portsrepo.DirectoryRepositoryFacade) (studentID, staffID string) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	studentID, staffID = uuid.NewString(), uuid.NewString()

	student := domain.User{UserID: studentID, Username: "stu-" + studentID, FullName: "Ayu Lestari", Role: domain.RoleStudent, IsActive: true}
	student.CreatedAt, student.LastUpdatedAt = now, now
	profile := domain.StudentProfile{StudentID: studentID, StudentNumber: studentID, CreatedAt: now}
	require.NoError(t, repo.SaveStudent(ctx, student, profile, domain.NewBalanceAccount(studentID, now)))

	staff := domain.User{UserID: staffID, Username: "staff-" + staffID, FullName: "Budi Santoso", Role: domain.RoleStaff, IsActive: true}
	staff.CreatedAt, staff.LastUpdatedAt = now, now
	require.NoError(t, repo.SaveStaff(ctx, staff, domain.StaffProfile{StaffID: staffID, CreatedAt: now}))
	return studentID, staffID
}

func TestPgxLedger_ConcurrentDeposits(t *testing.T) {
	provider := newIntegrationProvider(t)
	studentID, staffID := seedPair(t, provider.DirectoryRepo)
	svc := services.NewLedgerService(provider.LedgerRepo)
	ctx := context.Background()

	const workers = 40
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.PostTransaction(ctx, staffID, studentID, domain.Deposit, decimal.RequireFromString("1.00"), "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	account, err := svc.GetBalance(ctx, studentID)
	require.NoError(t, err)
	assert.Equal(t, "40.00", account.CurrentBalance.StringFixed(2))

	rows, err := svc.EntriesByStudent(ctx, studentID)
	require.NoError(t, err)
	require.Len(t, rows, workers)
	for _, row := range rows {
		assert.True(t, row.IsConsistent())
	}
}

func TestPgxLedger_FailedPostingRollsBack(t *testing.T) {
	provider := newIntegrationProvider(t)
	studentID, staffID := seedPair(t, provider.DirectoryRepo)
	svc := services.NewLedgerService(provider.LedgerRepo)
	ctx := context.Background()

	_, err := svc.PostTransaction(ctx, staffID, studentID, domain.Deposit, decimal.RequireFromString("25.00"), "")
	require.NoError(t, err)

	_, err = svc.PostTransaction(ctx, uuid.NewString(), studentID, domain.Deposit, decimal.RequireFromString("10.00"), "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.PostTransaction(ctx, staffID, studentID, domain.Withdrawal, decimal.RequireFromString("30.00"), "")
	assert.ErrorIs(t, err, apperrors.ErrInsufficientBalance)

	account, err := svc.GetBalance(ctx, studentID)
	require.NoError(t, err)
	assert.Equal(t, "25.00", account.CurrentBalance.StringFixed(2))

	rows, err := svc.EntriesByStudent(ctx, studentID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
