package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/student_savings_app/internal/apperrors"
	"github.com/SscSPs/student_savings_app/internal/core/domain"
	"github.com/SscSPs/student_savings_app/internal/core/ports/repositories"
	"github.com/SscSPs/student_savings_app/internal/repositories/database/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

func seedStudent(t *testing.T, store *memory.Store, id, name string, classID *string) {
	t.Helper()
	user := domain.User{UserID: id, Username: id, FullName: name, Role: domain.RoleStudent, IsActive: true}
	profile := domain.StudentProfile{StudentID: id, StudentNumber: "N-" + id, ClassID: classID, CreatedAt: baseTime}
	require.NoError(t, store.SaveStudent(context.Background(), user, profile, domain.NewBalanceAccount(id, baseTime)))
}

func seedStaff(t *testing.T, store *memory.Store, id, name string) {
	t.Helper()
	user := domain.User{UserID: id, Username: id, FullName: name, Role: domain.RoleStaff, IsActive: true}
	require.NoError(t, store.SaveStaff(context.Background(), user, domain.StaffProfile{StaffID: id, Position: "Teacher"}))
}

func post(t *testing.T, store *memory.Store, staffID, studentID string, entryType domain.EntryType, amount string, at time.Time) domain.LedgerEntry {
	t.Helper()
	entry, err := tryPost(store, staffID, studentID, entryType, amount, at)
	require.NoError(t, err)
	return entry
}

func tryPost(store *memory.Store, staffID, studentID string, entryType domain.EntryType, amount string, at time.Time) (domain.LedgerEntry, error) {
	var posted domain.LedgerEntry
	err := store.WithLockedAccount(context.Background(), studentID, func(ctx context.Context, account *domain.BalanceAccount, tx repositories.LedgerTx) error {
		entry, err := account.Post(staffID, entryType, decimal.RequireFromString(amount), "", at)
		if err != nil {
			return err
		}
		if err := tx.SaveBalance(ctx, *account); err != nil {
			return err
		}
		if err := tx.AppendEntry(ctx, &entry); err != nil {
			return err
		}
		posted = entry
		return nil
	})
	return posted, err
}

func TestWithLockedAccount_CommitsOnSuccess(t *testing.T) {
	store := memory.NewStore()
	seedStudent(t, store, "stu-1", "Ayu", nil)
	seedStaff(t, store, "staff-1", "Budi")

	entry := post(t, store, "staff-1", "stu-1", domain.Deposit, "100.00", baseTime)
	assert.NotZero(t, entry.ID)

	account, err := store.FindBalanceAccount(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Equal(t, "100.00", account.CurrentBalance.StringFixed(2))

	rows, err := store.FindEntriesByStudent(context.Background(), "stu-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, entry.ID, rows[0].ID)
	assert.Equal(t, "Budi", rows[0].StaffName)
}

func TestWithLockedAccount_DiscardsWritesOnError(t *testing.T) {
	store := memory.NewStore()
	seedStudent(t, store, "stu-1", "Ayu", nil)
	seedStaff(t, store, "staff-1", "Budi")
	boom := errors.New("boom")

	err := store.WithLockedAccount(context.Background(), "stu-1", func(ctx context.Context, account *domain.BalanceAccount, tx repositories.LedgerTx) error {
		entry, err := account.Post("staff-1", domain.Deposit, decimal.RequireFromString("10"), "", baseTime)
		require.NoError(t, err)
		require.NoError(t, tx.SaveBalance(ctx, *account))
		require.NoError(t, tx.AppendEntry(ctx, &entry))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	account, err := store.FindBalanceAccount(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.True(t, account.CurrentBalance.IsZero())

	rows, err := store.FindEntriesByStudent(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestWithLockedAccount_RejectsUnknownStaff(t *testing.T) {
	store := memory.NewStore()
	seedStudent(t, store, "stu-1", "Ayu", nil)
	seedStudent(t, store, "stu-2", "Citra", nil)

	for _, staffID := range []string{"no-such-staff", "stu-2"} {
		_, err := tryPost(store, staffID, "stu-1", domain.Deposit, "10.00", baseTime)
		assert.ErrorIs(t, err, apperrors.ErrValidation, staffID)
	}

	account, err := store.FindBalanceAccount(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.True(t, account.CurrentBalance.IsZero())

	rows, err := store.FindEntriesByStudent(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestWithLockedAccount_MissingAccount(t *testing.T) {
	store := memory.NewStore()
	called := false

	err := store.WithLockedAccount(context.Background(), "ghost", func(context.Context, *domain.BalanceAccount, repositories.LedgerTx) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.False(t, called)
}

func TestWithLockedAccount_SerializesPerAccount(t *testing.T) {
	store := memory.NewStore()
	seedStudent(t, store, "stu-1", "Ayu", nil)
	seedStaff(t, store, "staff-1", "Budi")

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := tryPost(store, "staff-1", "stu-1", domain.Deposit, "1.00", time.Now())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	account, err := store.FindBalanceAccount(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Equal(t, "50.00", account.CurrentBalance.StringFixed(2))

	rows, err := store.FindEntriesByStudent(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Len(t, rows, workers)
}

func TestFindEntries_FiltersAndOrdering(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.SaveClass(ctx, domain.Class{ClassID: "class-a", Name: "5A"}))
	classA := "class-a"
	seedStudent(t, store, "stu-1", "Ayu", &classA)
	seedStudent(t, store, "stu-2", "Citra", nil)
	seedStaff(t, store, "staff-1", "Budi")

	first := post(t, store, "staff-1", "stu-1", domain.Deposit, "100.00", baseTime)
	second := post(t, store, "staff-1", "stu-1", domain.Withdrawal, "30.00", baseTime.Add(time.Hour))
	third := post(t, store, "staff-1", "stu-2", domain.Deposit, "20.00", baseTime.Add(2*time.Hour))

	all, err := store.FindEntries(ctx, domain.EntryQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{third.ID, second.ID, first.ID}, []int64{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, "Ayu", all[1].StudentName)
	assert.Equal(t, "5A", all[1].ClassName)
	assert.Equal(t, "Budi", all[1].StaffName)

	deposits := domain.Deposit
	byType, err := store.FindEntries(ctx, domain.EntryQuery{Type: &deposits})
	require.NoError(t, err)
	assert.Len(t, byType, 2)

	byClass, err := store.FindEntries(ctx, domain.EntryQuery{ClassID: &classA})
	require.NoError(t, err)
	assert.Len(t, byClass, 2)

	to := baseTime.Add(90 * time.Minute)
	windowed, err := store.FindEntries(ctx, domain.EntryQuery{Range: domain.TimeRange{To: &to}})
	require.NoError(t, err)
	assert.Len(t, windowed, 2)

	totals, err := store.SumEntriesByType(ctx, domain.TimeRange{})
	require.NoError(t, err)
	summary := domain.NewDailySummary(baseTime, totals)
	assert.Equal(t, int64(3), summary.TotalCount)
	assert.Equal(t, "120.00", summary.DepositAmount.StringFixed(2))
	assert.Equal(t, "30.00", summary.WithdrawalAmount.StringFixed(2))
}

func TestDirectory_UniquenessAndHydration(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	seedStudent(t, store, "stu-1", "Ayu", nil)

	dup := domain.User{UserID: "other", Username: "stu-1"}
	assert.ErrorIs(t, store.SaveUser(ctx, dup), apperrors.ErrDuplicate)

	missingClass := "nope"
	err := store.SaveStudent(ctx,
		domain.User{UserID: "stu-2", Username: "stu-2"},
		domain.StudentProfile{StudentID: "stu-2", StudentNumber: "N-stu-2", ClassID: &missingClass},
		domain.NewBalanceAccount("stu-2", baseTime))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = store.FindUserByID(ctx, "stu-2")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	student, err := store.FindStudentByID(ctx, "stu-1")
	require.NoError(t, err)
	assert.Equal(t, "Ayu", student.FullName)
	assert.True(t, student.IsActive)
	assert.True(t, student.Balance.IsZero())

	users, err := store.FindUsers(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, users, 1)
	users, err = store.FindUsers(ctx, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, users)
}
