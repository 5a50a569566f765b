package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/student_savings_app/internal/apperrors"
	"github.com/SscSPs/student_savings_app/internal/core/domain"
	portsrepo "github.com/SscSPs/student_savings_app/internal/core/ports/repositories"
	"github.com/SscSPs/student_savings_app/internal/models"
	"github.com/SscSPs/student_savings_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `user_id, username, full_name, role, password_hash, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

const studentSelect = `
	SELECT sp.student_id, u.username, u.full_name, sp.student_number, sp.class_id, c.name,
	       COALESCE(ba.current_balance, 0), u.is_active, sp.created_at
	FROM student_profiles sp
	JOIN users u ON u.user_id = sp.student_id
	LEFT JOIN classes c ON c.class_id = sp.class_id
	LEFT JOIN balance_accounts ba ON ba.student_id = sp.student_id`

const staffSelect = `
	SELECT st.staff_id, u.username, u.full_name, st.position, u.is_active, st.created_at
	FROM staff_profiles st
	JOIN users u ON u.user_id = st.staff_id`

type PgxDirectoryRepository struct {
	BaseRepository
}

func newPgxDirectoryRepository(pool *pgxpool.Pool, queryTimeout time.Duration) portsrepo.DirectoryRepositoryFacade {
	return &PgxDirectoryRepository{
		BaseRepository: BaseRepository{Pool: pool, QueryTimeout: queryTimeout},
	}
}

// Ensure PgxDirectoryRepository implements portsrepo.DirectoryRepositoryFacade
var _ portsrepo.DirectoryRepositoryFacade = (*PgxDirectoryRepository)(nil)

// querier is satisfied by both the pool and an open transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func insertUser(ctx context.Context, q querier, user domain.User) error {
	m := mapping.ToModelUser(user)
	_, err := q.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`,
		m.UserID, m.Username, m.FullName, m.Role, m.PasswordHash, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "failed to insert user "+user.Username)
	}
	return nil
}

func (r *PgxDirectoryRepository) SaveUser(ctx context.Context, user domain.User) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return insertUser(ctx, r.Pool, user)
}

func (r *PgxDirectoryRepository) UpdateUser(ctx context.Context, user domain.User) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.Pool.Exec(ctx, `
		UPDATE users
		SET full_name = $2, is_active = $3, last_updated_at = $4, last_updated_by = $5
		WHERE user_id = $1;`,
		user.UserID, user.FullName, user.IsActive, user.LastUpdatedAt, user.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "failed to update user "+user.UserID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %s", apperrors.ErrNotFound, user.UserID)
	}
	return nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID, &m.Username, &m.FullName, &m.Role, &m.PasswordHash, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxDirectoryRepository) findUser(ctx context.Context, column, value string) (*domain.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	m, err := scanUser(r.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+column+` = $1;`, value))
	if err != nil {
		return nil, mapError(err, "failed to find user by "+column)
	}
	user := mapping.ToDomainUser(m)
	return &user, nil
}

func (r *PgxDirectoryRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findUser(ctx, "user_id", userID)
}

func (r *PgxDirectoryRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findUser(ctx, "username", username)
}

func (r *PgxDirectoryRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.Pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY username
		LIMIT $1 OFFSET $2;`, limit, offset)
	if err != nil {
		return nil, mapError(err, "failed to list users")
	}
	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.User, error) {
		return scanUser(row)
	})
	if err != nil {
		return nil, mapError(err, "failed to scan users")
	}
	return mapping.ToDomainUserSlice(users), nil
}

func (r *PgxDirectoryRepository) SaveClass(ctx context.Context, class domain.Class) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	m := mapping.ToModelClass(class)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO classes (class_id, name, description, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);`,
		m.ClassID, m.Name, m.Description, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "failed to insert class "+class.Name)
	}
	return nil
}

func scanClass(row pgx.Row) (models.Class, error) {
	var m models.Class
	err := row.Scan(&m.ClassID, &m.Name, &m.Description, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	return m, err
}

func (r *PgxDirectoryRepository) FindClassByID(ctx context.Context, classID string) (*domain.Class, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	m, err := scanClass(r.Pool.QueryRow(ctx, `
		SELECT class_id, name, description, created_at, created_by, last_updated_at, last_updated_by
		FROM classes WHERE class_id = $1;`, classID))
	if err != nil {
		return nil, mapError(err, "failed to find class "+classID)
	}
	class := mapping.ToDomainClass(m)
	return &class, nil
}

func (r *PgxDirectoryRepository) ListClasses(ctx context.Context) ([]domain.Class, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.Pool.Query(ctx, `
		SELECT class_id, name, description, created_at, created_by, last_updated_at, last_updated_by
		FROM classes ORDER BY name;`)
	if err != nil {
		return nil, mapError(err, "failed to list classes")
	}
	classes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Class, error) {
		return scanClass(row)
	})
	if err != nil {
		return nil, mapError(err, "failed to scan classes")
	}
	out := make([]domain.Class, len(classes))
	for i, m := range classes {
		out[i] = mapping.ToDomainClass(m)
	}
	return out, nil
}

// SaveStudent implements portsrepo.ProfileRepository.
func (r *PgxDirectoryRepository) SaveStudent(ctx context.Context, user domain.User, profile domain.StudentProfile, account domain.BalanceAccount) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck

	if err := insertUser(ctx, tx, user); err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO student_profiles (student_id, student_number, class_id, created_at)
		VALUES ($1, $2, $3, $4);`,
		profile.StudentID, profile.StudentNumber, mapping.ToNullString(profile.ClassID), profile.CreatedAt,
	)
	if err != nil {
		return mapError(err, "failed to insert student profile "+profile.StudentNumber)
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO balance_accounts (student_id, current_balance, updated_at)
		VALUES ($1, $2, $3);`,
		account.StudentID, account.CurrentBalance, account.UpdatedAt,
	)
	if err != nil {
		return mapError(err, "failed to open balance account "+account.StudentID)
	}
	return r.Commit(ctx, tx)
}

// SaveStaff implements portsrepo.ProfileRepository.
func (r *PgxDirectoryRepository) SaveStaff(ctx context.Context, user domain.User, profile domain.StaffProfile) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck

	if err := insertUser(ctx, tx, user); err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO staff_profiles (staff_id, position, created_at)
		VALUES ($1, $2, $3);`,
		profile.StaffID, profile.Position, profile.CreatedAt,
	)
	if err != nil {
		return mapError(err, "failed to insert staff profile "+profile.StaffID)
	}
	return r.Commit(ctx, tx)
}

func scanStudent(row pgx.Row) (models.StudentProfile, error) {
	var m models.StudentProfile
	err := row.Scan(&m.StudentID, &m.Username, &m.FullName, &m.StudentNumber, &m.ClassID, &m.ClassName,
		&m.Balance, &m.IsActive, &m.CreatedAt)
	return m, err
}

func (r *PgxDirectoryRepository) FindStudentByID(ctx context.Context, studentID string) (*domain.StudentProfile, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	m, err := scanStudent(r.Pool.QueryRow(ctx, studentSelect+` WHERE sp.student_id = $1;`, studentID))
	if err != nil {
		return nil, mapError(err, "failed to find student "+studentID)
	}
	student := mapping.ToDomainStudentProfile(m)
	return &student, nil
}

func (r *PgxDirectoryRepository) ListStudents(ctx context.Context, classID *string) ([]domain.StudentProfile, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := studentSelect
	var args []any
	if classID != nil {
		query += ` WHERE sp.class_id = $1`
		args = append(args, *classID)
	}
	query += ` ORDER BY u.full_name, sp.student_id;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "failed to list students")
	}
	students, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.StudentProfile, error) {
		return scanStudent(row)
	})
	if err != nil {
		return nil, mapError(err, "failed to scan students")
	}
	out := make([]domain.StudentProfile, len(students))
	for i, m := range students {
		out[i] = mapping.ToDomainStudentProfile(m)
	}
	return out, nil
}

func scanStaff(row pgx.Row) (models.StaffProfile, error) {
	var m models.StaffProfile
	err := row.Scan(&m.StaffID, &m.Username, &m.FullName, &m.Position, &m.IsActive, &m.CreatedAt)
	return m, err
}

func (r *PgxDirectoryRepository) FindStaffByID(ctx context.Context, staffID string) (*domain.StaffProfile, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	m, err := scanStaff(r.Pool.QueryRow(ctx, staffSelect+` WHERE st.staff_id = $1;`, staffID))
	if err != nil {
		return nil, mapError(err, "failed to find staff "+staffID)
	}
	staff := mapping.ToDomainStaffProfile(m)
	return &staff, nil
}

func (r *PgxDirectoryRepository) ListStaff(ctx context.Context) ([]domain.StaffProfile, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.Pool.Query(ctx, staffSelect+` ORDER BY u.full_name, st.staff_id;`)
	if err != nil {
		return nil, mapError(err, "failed to list staff")
	}
	staff, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.StaffProfile, error) {
		return scanStaff(row)
	})
	if err != nil {
		return nil, mapError(err, "failed to scan staff")
	}
	out := make([]domain.StaffProfile, len(staff))
	for i, m := range staff {
		out[i] = mapping.ToDomainStaffProfile(m)
	}
	return out, nil
}
