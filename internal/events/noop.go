package events

import (
	"context"

	"github.com/SscSPs/student_savings_app/internal/core/domain"
	"github.com/SscSPs/student_savings_app/internal/core/ports/publishers"
)

// NoopPublisher discards every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishEntryPosted(context.Context, domain.EntryPostedEvent) error { return nil }
func (NoopPublisher) Close() error { return nil }

var _ publishers.LedgerEventPublisher = NoopPublisher{}
