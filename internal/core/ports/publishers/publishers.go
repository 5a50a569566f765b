package publishers

import (
	"context"

	"github.com/SscSPs/student_savings_app/internal/core/domain"
)

// LedgerEventPublisher emits notifications about committed ledger changes.
type LedgerEventPublisher interface {
	PublishEntryPosted(ctx context.Context, event domain.EntryPostedEvent) error
	Close() error
}
