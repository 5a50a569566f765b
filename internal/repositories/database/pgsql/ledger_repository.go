package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/student_savings_app/internal/apperrors"
	"github.com/SscSPs/student_savings_app/internal/core/domain"
	portsrepo "github.com/SscSPs/student_savings_app/internal/core/ports/repositories"
	"github.com/SscSPs/student_savings_app/internal/models"
	"github.com/SscSPs/student_savings_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ledgerRowSelect joins every name shown next to an entry. Callers append
// WHERE clauses and ledgerRowOrder.
const ledgerRowSelect = `
	SELECT le.id, le.student_id, le.staff_id, le.type, le.amount, le.balance_before, le.balance_after,
	       le.description, le.transaction_date, le.created_at,
	       su.full_name, c.name, tu.full_name
	FROM ledger_entries le
	LEFT JOIN users su ON su.user_id = le.student_id
	LEFT JOIN student_profiles sp ON sp.student_id = le.student_id
	LEFT JOIN classes c ON c.class_id = sp.class_id
	LEFT JOIN users tu ON tu.user_id = le.staff_id`

const ledgerRowOrder = ` ORDER BY le.transaction_date DESC, le.id DESC`

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for balances and ledger entries.
func newPgxLedgerRepository(pool *pgxpool.Pool, queryTimeout time.Duration) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool, QueryTimeout: queryTimeout},
	}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// pgxLedgerTx writes through an open transaction holding the account row lock.
type pgxLedgerTx struct {
	tx pgx.Tx
}

func (t *pgxLedgerTx) SaveBalance(ctx context.Context, account domain.BalanceAccount) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE balance_accounts SET current_balance = $2, updated_at = $3
		WHERE student_id = $1;`,
		account.StudentID, account.CurrentBalance, account.UpdatedAt)
	if err != nil {
		return mapError(err, "failed to update balance of "+account.StudentID)
	}
	if tag.RowsAffected() != 1 {
		return apperrors.NewAppError(500, "balance update affected no rows for "+account.StudentID, nil)
	}
	return nil
}

func (t *pgxLedgerTx) AppendEntry(ctx context.Context, entry *domain.LedgerEntry) error {
	m := mapping.ToModelLedgerEntry(*entry)
	err := t.tx.QueryRow(ctx, `
		INSERT INTO ledger_entries (
			student_id, staff_id, type, amount, balance_before, balance_after,
			description, transaction_date, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id;`,
		m.StudentID, m.StaffID, m.Type, m.Amount, m.BalanceBefore, m.BalanceAfter,
		m.Description, m.TransactionDate, m.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		return mapError(err, "failed to insert ledger entry")
	}
	return nil
}

// WithLockedAccount locks the balance row with SELECT ... FOR UPDATE and runs
// work inside the same transaction.
func (r *PgxLedgerRepository) WithLockedAccount(ctx context.Context, studentID string, work portsrepo.AccountWork) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Will be ignored if transaction is committed successfully
	defer r.Rollback(ctx, tx) //nolint:errcheck

	var m models.BalanceAccount
	err = tx.QueryRow(ctx, `
		SELECT student_id, current_balance, updated_at
		FROM balance_accounts
		WHERE student_id = $1
		FOR UPDATE;`, studentID).Scan(&m.StudentID, &m.CurrentBalance, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: balance account %s", apperrors.ErrNotFound, studentID)
		}
		return mapError(err, "failed to lock balance account "+studentID)
	}

	account := mapping.ToDomainBalanceAccount(m)
	if err := work(ctx, &account, &pgxLedgerTx{tx: tx}); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// FindBalanceAccount implements portsrepo.BalanceAccountReader.
func (r *PgxLedgerRepository) FindBalanceAccount(ctx context.Context, studentID string) (*domain.BalanceAccount, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var m models.BalanceAccount
	err := r.Pool.QueryRow(ctx, `
		SELECT student_id, current_balance, updated_at
		FROM balance_accounts
		WHERE student_id = $1;`, studentID).Scan(&m.StudentID, &m.CurrentBalance, &m.UpdatedAt)
	if err != nil {
		return nil, mapError(err, "failed to find balance account "+studentID)
	}
	account := mapping.ToDomainBalanceAccount(m)
	return &account, nil
}

// FindEntriesByStudent implements portsrepo.LedgerReader.
func (r *PgxLedgerRepository) FindEntriesByStudent(ctx context.Context, studentID string) ([]domain.StudentLedgerRow, error) {
	rows, err := r.queryLedgerRows(ctx, []string{"le.student_id = $1"}, []any{studentID})
	if err != nil {
		return nil, err
	}
	out := make([]domain.StudentLedgerRow, len(rows))
	for i, row := range rows {
		out[i] = mapping.ToStudentLedgerRow(row)
	}
	return out, nil
}

// FindEntriesByStaff implements portsrepo.LedgerReader.
func (r *PgxLedgerRepository) FindEntriesByStaff(ctx context.Context, staffID string, window domain.TimeRange) ([]domain.StaffLedgerRow, error) {
	f := newFilter()
	f.add("le.staff_id = $%d", staffID)
	f.addRange(window)

	rows, err := r.queryLedgerRows(ctx, f.conds, f.args)
	if err != nil {
		return nil, err
	}
	out := make([]domain.StaffLedgerRow, len(rows))
	for i, row := range rows {
		out[i] = mapping.ToStaffLedgerRow(row)
	}
	return out, nil
}

// FindEntries implements portsrepo.LedgerReader.
func (r *PgxLedgerRepository) FindEntries(ctx context.Context, q domain.EntryQuery) ([]domain.ReportRow, error) {
	f := newFilter()
	f.addRange(q.Range)
	if q.StudentID != nil {
		f.add("le.student_id = $%d", *q.StudentID)
	}
	if q.ClassID != nil {
		f.add("sp.class_id = $%d", *q.ClassID)
	}
	if q.Type != nil {
		f.add("le.type = $%d", string(*q.Type))
	}

	rows, err := r.queryLedgerRows(ctx, f.conds, f.args)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ReportRow, len(rows))
	for i, row := range rows {
		out[i] = mapping.ToReportRow(row)
	}
	return out, nil
}

// SumEntriesByType implements portsrepo.LedgerReader.
func (r *PgxLedgerRepository) SumEntriesByType(ctx context.Context, window domain.TimeRange) ([]domain.TypeTotal, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	f := newFilter()
	f.addRange(window)
	query := `SELECT le.type, COUNT(*), COALESCE(SUM(le.amount), 0) FROM ledger_entries le` +
		f.where() + ` GROUP BY le.type ORDER BY le.type;`

	rows, err := r.Pool.Query(ctx, query, f.args...)
	if err != nil {
		return nil, mapError(err, "failed to sum ledger entries")
	}
	totals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.TypeTotal, error) {
		var t models.TypeTotal
		err := row.Scan(&t.Type, &t.Count, &t.Amount)
		return t, err
	})
	if err != nil {
		return nil, mapError(err, "failed to scan ledger totals")
	}
	return mapping.ToDomainTypeTotals(totals), nil
}

func (r *PgxLedgerRepository) queryLedgerRows(ctx context.Context, conds []string, args []any) ([]models.LedgerRow, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := ledgerRowSelect + (&filter{conds: conds}).where() + ledgerRowOrder + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "failed to query ledger entries")
	}
	result, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.LedgerRow, error) {
		var m models.LedgerRow
		err := row.Scan(
			&m.ID, &m.StudentID, &m.StaffID, &m.Type, &m.Amount, &m.BalanceBefore, &m.BalanceAfter,
			&m.Description, &m.TransactionDate, &m.CreatedAt,
			&m.StudentName, &m.ClassName, &m.StaffName,
		)
		return m, err
	})
	if err != nil {
		return nil, mapError(err, "failed to scan ledger entries")
	}
	return result, nil
}

// filter accumulates positional WHERE conditions.
type filter struct {
	conds []string
	args  []any
}

func newFilter() *filter {
	return &filter{}
}

// add appends a condition; format receives the placeholder index.
func (f *filter) add(format string, arg any) {
	f.args = append(f.args, arg)
	f.conds = append(f.conds, fmt.Sprintf(format, len(f.args)))
}

func (f *filter) addRange(window domain.TimeRange) {
	if window.From != nil {
		f.add("le.transaction_date >= $%d", *window.From)
	}
	if window.To != nil {
		f.add("le.transaction_date <= $%d", *window.To)
	}
}

func (f *filter) where() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}
