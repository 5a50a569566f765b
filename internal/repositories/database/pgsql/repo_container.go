package pgsql

import (
	"time"

	portsrepo "github.com/SscSPs/student_savings_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every PostgreSQL repository onto dbPool.
// queryTimeout bounds each repository call; zero disables the bound.
func NewRepositoryProvider(dbPool *pgxpool.Pool, queryTimeout time.Duration) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		LedgerRepo:    newPgxLedgerRepository(dbPool, queryTimeout),
		DirectoryRepo: newPgxDirectoryRepository(dbPool, queryTimeout),
	}
}
