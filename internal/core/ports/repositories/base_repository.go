package repositories

import (
	"context"

	"github.com/SscSPs/student_savings_app/internal/core/domain"
)

// LedgerTx is the write side of an open storage transaction scoped to one
// locked balance account. Nothing written through it is visible to other
// callers until the surrounding unit of work commits.
type LedgerTx interface {
	// SaveBalance persists the account's current balance.
	SaveBalance(ctx context.Context, account domain.BalanceAccount) error

	// AppendEntry inserts a ledger entry and sets its ID.
	AppendEntry(ctx context.Context, entry *domain.LedgerEntry) error
}

// AccountWork is executed while the balance account row is locked.
// Returning an error rolls back everything written through tx.
type AccountWork func(ctx context.Context, account *domain.BalanceAccount, tx LedgerTx) error

// AccountUnitOfWork runs work atomically against one locked balance account.
type AccountUnitOfWork interface {
	// WithLockedAccount locks the student's balance account, calls work with the
	// locked state and commits if work returns nil. It returns
	// apperrors.ErrNotFound without calling work when the account does not exist.
	WithLockedAccount(ctx context.Context, studentID string, work AccountWork) error
}
