package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/student_savings_app/internal/apperrors"
	"github.com/SscSPs/student_savings_app/internal/core/domain"
	"github.com/SscSPs/student_savings_app/internal/core/ports/repositories"
)

// stagedTx buffers the writes of one unit of work until it commits.
type stagedTx struct {
	store   *Store
	balance *domain.BalanceAccount
	entries []domain.LedgerEntry
}

func (t *stagedTx) SaveBalance(_ context.Context, account domain.BalanceAccount) error {
	t.balance = &account
	return nil
}

// AppendEntry rejects entries whose staff member has no staff profile, as the
// ledger_entries.staff_id foreign key does in PostgreSQL.
func (t *stagedTx) AppendEntry(_ context.Context, entry *domain.LedgerEntry) error {
	t.store.mu.RLock()
	_, ok := t.store.staff[entry.StaffID]
	t.store.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: staff %s does not exist", apperrors.ErrValidation, entry.StaffID)
	}
	entry.ID = t.store.lastID.Add(1)
	t.entries = append(t.entries, *entry)
	return nil
}

// WithLockedAccount implements repositories.AccountUnitOfWork.
func (s *Store) WithLockedAccount(ctx context.Context, studentID string, work repositories.AccountWork) error {
	lock := s.accountLock(studentID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	account, ok := s.accounts[studentID]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: balance account %s", apperrors.ErrNotFound, studentID)
	}

	tx := &stagedTx{store: s}
	if err := work(ctx, &account, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tx.balance != nil {
		s.accounts[studentID] = *tx.balance
	}
	s.entries = append(s.entries, tx.entries...)
	return nil
}

// FindBalanceAccount implements repositories.BalanceAccountReader.
func (s *Store) FindBalanceAccount(_ context.Context, studentID string) (*domain.BalanceAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[studentID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &account, nil
}

// FindEntriesByStudent implements repositories.LedgerReader.
func (s *Store) FindEntriesByStudent(_ context.Context, studentID string) ([]domain.StudentLedgerRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]domain.StudentLedgerRow, 0)
	for _, e := range s.newestFirst() {
		if e.StudentID != studentID {
			continue
		}
		rows = append(rows, domain.StudentLedgerRow{LedgerEntry: e, StaffName: s.fullName(e.StaffID)})
	}
	return rows, nil
}

// FindEntriesByStaff implements repositories.LedgerReader.
func (s *Store) FindEntriesByStaff(_ context.Context, staffID string, window domain.TimeRange) ([]domain.StaffLedgerRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]domain.StaffLedgerRow, 0)
	for _, e := range s.newestFirst() {
		if e.StaffID != staffID || !window.Contains(e.TransactionDate) {
			continue
		}
		rows = append(rows, domain.StaffLedgerRow{
			LedgerEntry: e,
			StudentName: s.fullName(e.StudentID),
			ClassName:   s.className(s.students[e.StudentID].ClassID),
		})
	}
	return rows, nil
}

// FindEntries implements repositories.LedgerReader.
func (s *Store) FindEntries(_ context.Context, q domain.EntryQuery) ([]domain.ReportRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]domain.ReportRow, 0)
	for _, e := range s.newestFirst() {
		if !q.Range.Contains(e.TransactionDate) {
			continue
		}
		if q.StudentID != nil && e.StudentID != *q.StudentID {
			continue
		}
		if q.Type != nil && e.Type != *q.Type {
			continue
		}
		classID := s.students[e.StudentID].ClassID
		if q.ClassID != nil && (classID == nil || *classID != *q.ClassID) {
			continue
		}
		rows = append(rows, domain.ReportRow{
			LedgerEntry: e,
			StudentName: s.fullName(e.StudentID),
			ClassName:   s.className(classID),
			StaffName:   s.fullName(e.StaffID),
		})
	}
	return rows, nil
}

// SumEntriesByType implements repositories.LedgerReader.
func (s *Store) SumEntriesByType(_ context.Context, window domain.TimeRange) ([]domain.TypeTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byType := make(map[domain.EntryType]*domain.TypeTotal)
	for _, e := range s.entries {
		if !window.Contains(e.TransactionDate) {
			continue
		}
		total, ok := byType[e.Type]
		if !ok {
			total = &domain.TypeTotal{Type: e.Type}
			byType[e.Type] = total
		}
		total.Count++
		total.Amount = total.Amount.Add(e.Amount)
	}

	totals := make([]domain.TypeTotal, 0, len(byType))
	for _, t := range byType {
		totals = append(totals, *t)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Type < totals[j].Type })
	return totals, nil
}

// newestFirst returns a sorted copy of the entries. Callers hold s.mu.
func (s *Store) newestFirst() []domain.LedgerEntry {
	sorted := make([]domain.LedgerEntry, len(s.entries))
	copy(sorted, s.entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].TransactionDate.Equal(sorted[j].TransactionDate) {
			return sorted[i].TransactionDate.After(sorted[j].TransactionDate)
		}
		return sorted[i].ID > sorted[j].ID
	})
	return sorted
}
