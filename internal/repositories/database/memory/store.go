package memory

import (
	"sync"
	"sync/atomic"

	"github.com/SscSPs/student_savings_app/internal/core/domain"
	"github.com/SscSPs/student_savings_app/internal/core/ports/repositories"
)

// Store is an in-memory implementation of every repository port. It is used
// by the development storage driver and by service tests.
//
// Balance writes are serialized per student by accountLocks; mu only guards
// the maps and the entry slice for the instant they are read or written.
type Store struct {
	mu        sync.RWMutex
	users     map[string]domain.User
	usernames map[string]string // username -> userID
	classes   map[string]domain.Class
	students  map[string]domain.StudentProfile
	staff     map[string]domain.StaffProfile
	accounts  map[string]domain.BalanceAccount
	entries   []domain.LedgerEntry
	lastID    atomic.Int64

	locksMu      sync.Mutex
	accountLocks map[string]*sync.Mutex
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		users:        make(map[string]domain.User),
		usernames:    make(map[string]string),
		classes:      make(map[string]domain.Class),
		students:     make(map[string]domain.StudentProfile),
		staff:        make(map[string]domain.StaffProfile),
		accounts:     make(map[string]domain.BalanceAccount),
		entries:      make([]domain.LedgerEntry, 0),
		accountLocks: make(map[string]*sync.Mutex),
	}
}

// NewRepositoryProvider wires a fresh Store into a RepositoryProvider.
func NewRepositoryProvider() repositories.RepositoryProvider {
	store := NewStore()
	return repositories.RepositoryProvider{
		LedgerRepo:    store,
		DirectoryRepo: store,
	}
}

// accountLock returns the mutex owning studentID's balance, creating it on first use.
func (s *Store) accountLock(studentID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	lock, ok := s.accountLocks[studentID]
	if !ok {
		lock = &sync.Mutex{}
		s.accountLocks[studentID] = lock
	}
	return lock
}

func (s *Store) fullName(userID string) string {
	return s.users[userID].FullName
}

func (s *Store) className(classID *string) string {
	if classID == nil {
		return ""
	}
	return s.classes[*classID].Name
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

var (
	_ repositories.LedgerRepositoryFacade    = (*Store)(nil)
	_ repositories.DirectoryRepositoryFacade = (*Store)(nil)
)
