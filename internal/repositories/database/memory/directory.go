package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/student_savings_app/internal/apperrors"
	"github.com/SscSPs/student_savings_app/internal/core/domain"
)

// SaveUser implements repositories.UserWriter.
func (s *Store) SaveUser(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertUser(user)
}

// UpdateUser implements repositories.UserWriter.
func (s *Store) UpdateUser(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.UserID]
	if !ok {
		return apperrors.ErrNotFound
	}
	// Username and role are fixed once created.
	existing.FullName = user.FullName
	existing.IsActive = user.IsActive
	existing.LastUpdatedAt = user.LastUpdatedAt
	existing.LastUpdatedBy = user.LastUpdatedBy
	s.users[user.UserID] = existing
	return nil
}

// FindUserByID implements repositories.UserReader.
func (s *Store) FindUserByID(_ context.Context, userID string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &user, nil
}

// FindUserByUsername implements repositories.UserReader.
func (s *Store) FindUserByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.usernames[username]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	user := s.users[userID]
	return &user, nil
}

// FindUsers implements repositories.UserReader. Users are ordered by username.
func (s *Store) FindUsers(_ context.Context, limit int, offset int) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })

	if offset >= len(users) {
		return []domain.User{}, nil
	}
	end := offset + limit
	if end > len(users) {
		end = len(users)
	}
	return users[offset:end], nil
}

// SaveClass implements repositories.ClassRepository.
func (s *Store) SaveClass(_ context.Context, class domain.Class) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.classes {
		if c.Name == class.Name {
			return fmt.Errorf("%w: class %q", apperrors.ErrDuplicate, class.Name)
		}
	}
	s.classes[class.ClassID] = class
	return nil
}

// FindClassByID implements repositories.ClassRepository.
func (s *Store) FindClassByID(_ context.Context, classID string) (*domain.Class, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	class, ok := s.classes[classID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &class, nil
}

// ListClasses implements repositories.ClassRepository. Classes are ordered by name.
func (s *Store) ListClasses(_ context.Context) ([]domain.Class, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	classes := make([]domain.Class, 0, len(s.classes))
	for _, c := range s.classes {
		classes = append(classes, c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Name < classes[j].Name })
	return classes, nil
}

// SaveStudent implements repositories.ProfileRepository.
func (s *Store) SaveStudent(_ context.Context, user domain.User, profile domain.StudentProfile, account domain.BalanceAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.students {
		if existing.StudentNumber == profile.StudentNumber {
			return fmt.Errorf("%w: student number %q", apperrors.ErrDuplicate, profile.StudentNumber)
		}
	}
	if profile.ClassID != nil {
		if _, ok := s.classes[*profile.ClassID]; !ok {
			return fmt.Errorf("%w: class %s does not exist", apperrors.ErrValidation, *profile.ClassID)
		}
	}
	if err := s.insertUser(user); err != nil {
		return err
	}

	profile.ClassID = cloneString(profile.ClassID)
	s.students[profile.StudentID] = profile
	s.accounts[account.StudentID] = account
	return nil
}

// SaveStaff implements repositories.ProfileRepository.
func (s *Store) SaveStaff(_ context.Context, user domain.User, profile domain.StaffProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.insertUser(user); err != nil {
		return err
	}
	s.staff[profile.StaffID] = profile
	return nil
}

// FindStudentByID implements repositories.ProfileRepository.
func (s *Store) FindStudentByID(_ context.Context, studentID string) (*domain.StudentProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.students[studentID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	hydrated := s.hydrateStudent(profile)
	return &hydrated, nil
}

// ListStudents implements repositories.ProfileRepository. Students are
// ordered by full name.
func (s *Store) ListStudents(_ context.Context, classID *string) ([]domain.StudentProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	students := make([]domain.StudentProfile, 0, len(s.students))
	for _, p := range s.students {
		if classID != nil && (p.ClassID == nil || *p.ClassID != *classID) {
			continue
		}
		students = append(students, s.hydrateStudent(p))
	}
	sort.Slice(students, func(i, j int) bool { return students[i].FullName < students[j].FullName })
	return students, nil
}

// FindStaffByID implements repositories.ProfileRepository.
func (s *Store) FindStaffByID(_ context.Context, staffID string) (*domain.StaffProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.staff[staffID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	hydrated := s.hydrateStaff(profile)
	return &hydrated, nil
}

// ListStaff implements repositories.ProfileRepository. Staff are ordered by full name.
func (s *Store) ListStaff(_ context.Context) ([]domain.StaffProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	staff := make([]domain.StaffProfile, 0, len(s.staff))
	for _, p := range s.staff {
		staff = append(staff, s.hydrateStaff(p))
	}
	sort.Slice(staff, func(i, j int) bool { return staff[i].FullName < staff[j].FullName })
	return staff, nil
}

// insertUser adds a user, enforcing unique usernames. Callers hold s.mu.
func (s *Store) insertUser(user domain.User) error {
	if _, taken := s.usernames[user.Username]; taken {
		return fmt.Errorf("%w: username %q", apperrors.ErrDuplicate, user.Username)
	}
	s.users[user.UserID] = user
	s.usernames[user.Username] = user.UserID
	return nil
}

// hydrateStudent fills the fields a SQL join would supply. Callers hold s.mu.
func (s *Store) hydrateStudent(p domain.StudentProfile) domain.StudentProfile {
	user := s.users[p.StudentID]
	p.Username = user.Username
	p.FullName = user.FullName
	p.IsActive = user.IsActive
	p.ClassID = cloneString(p.ClassID)
	p.ClassName = s.className(p.ClassID)
	p.Balance = s.accounts[p.StudentID].CurrentBalance
	return p
}

// hydrateStaff fills the fields a SQL join would supply. Callers hold s.mu.
func (s *Store) hydrateStaff(p domain.StaffProfile) domain.StaffProfile {
	user := s.users[p.StaffID]
	p.Username = user.Username
	p.FullName = user.FullName
	p.IsActive = user.IsActive
	return p
}
