package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/student_savings_app/internal/apperrors"
	"github.com/SscSPs/student_savings_app/internal/core/domain"
	"github.com/SscSPs/student_savings_app/internal/core/ports/publishers"
	portsrepo "github.com/SscSPs/student_savings_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/student_savings_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

const publishTimeout = 5 * time.Second

// LedgerServiceOption configures a ledgerService.
type LedgerServiceOption func(*ledgerService)

// WithClock sets the source of posting timestamps.
func WithClock(now func() time.Time) LedgerServiceOption {
	return func(s *ledgerService) {
		s.now = now
	}
}

// WithEventPublisher sets the publisher notified after each committed posting.
func WithEventPublisher(p publishers.LedgerEventPublisher) LedgerServiceOption {
	return func(s *ledgerService) {
		s.publisher = p
	}
}

// WithReportLocation sets the timezone whose calendar days bound date filters.
func WithReportLocation(loc *time.Location) LedgerServiceOption {
	return func(s *ledgerService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// ledgerService posts transactions and answers ledger queries.
type ledgerService struct {
	BaseService
	ledgerRepo portsrepo.LedgerRepositoryFacade
	publisher  publishers.LedgerEventPublisher
	now        func() time.Time
	location   *time.Location
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade, opts ...LedgerServiceOption) portssvc.LedgerSvcFacade {
	s := &ledgerService{
		ledgerRepo: ledgerRepo,
		now:        func() time.Time { return time.Now().Truncate(time.Microsecond) },
		location:   time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// PostTransaction implements portssvc.TransactionPosterSvc.
func (s *ledgerService) PostTransaction(ctx context.Context, staffID, studentID string, entryType domain.EntryType, amount decimal.Decimal, description string) (*domain.LedgerEntry, error) {
	logger := s.GetLogger(ctx).With(
		slog.String("student_id", studentID),
		slog.String("staff_id", staffID),
		slog.String("type", string(entryType)),
		slog.String("amount", amount.String()),
	)

	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}
	if !entryType.IsValid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, entryType)
	}

	var posted domain.LedgerEntry
	err := s.ledgerRepo.WithLockedAccount(ctx, studentID, func(ctx context.Context, account *domain.BalanceAccount, tx portsrepo.LedgerTx) error {
		entry, err := account.Post(staffID, entryType, amount, description, s.now())
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
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Posting rejected: student has no balance account")
			return nil, fmt.Errorf("%w: %s", apperrors.ErrStudentNotFound, studentID)
		case errors.Is(err, apperrors.ErrInsufficientBalance):
			logger.Info("Posting rejected: insufficient balance")
			return nil, err
		case isDomainError(err):
			return nil, err
		}
		logger.Error("Failed to post transaction", slog.String("error", err.Error()))
		return nil, storageError("post transaction", err)
	}

	logger.Info("Transaction posted",
		slog.Int64("entry_id", posted.ID),
		slog.String("balance_after", posted.BalanceAfter.StringFixed(domain.MoneyScale)))
	s.publishPosted(ctx, posted)
	return &posted, nil
}

// publishPosted notifies subscribers of a committed entry. Failures are
// logged only; the posting is already durable.
func (s *ledgerService) publishPosted(ctx context.Context, entry domain.LedgerEntry) {
	if s.publisher == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.PublishEntryPosted(pubCtx, domain.NewEntryPostedEvent(entry)); err != nil {
		s.GetLogger(ctx).Warn("Failed to publish entry posted event",
			slog.Int64("entry_id", entry.ID),
			slog.String("error", err.Error()))
	}
}

// GetBalance implements portssvc.BalanceReaderSvc.
func (s *ledgerService) GetBalance(ctx context.Context, studentID string) (*domain.BalanceAccount, error) {
	account, err := s.ledgerRepo.FindBalanceAccount(ctx, studentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrStudentNotFound, studentID)
		}
		s.LogError(ctx, err, "Failed to read balance", slog.String("student_id", studentID))
		return nil, storageError("read balance", err)
	}
	return account, nil
}

// EntriesByStudent implements portssvc.LedgerQuerySvc.
func (s *ledgerService) EntriesByStudent(ctx context.Context, studentID string) ([]domain.StudentLedgerRow, error) {
	rows, err := s.ledgerRepo.FindEntriesByStudent(ctx, studentID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list student entries", slog.String("student_id", studentID))
		return nil, storageError("list student entries", err)
	}
	return rows, nil
}

// EntriesByStaff implements portssvc.LedgerQuerySvc.
func (s *ledgerService) EntriesByStaff(ctx context.Context, staffID string, date *time.Time) ([]domain.StaffLedgerRow, error) {
	var window domain.TimeRange
	if date != nil {
		start, end := domain.DayBounds(*date, s.location)
		window = domain.TimeRange{From: &start, To: &end}
	}

	rows, err := s.ledgerRepo.FindEntriesByStaff(ctx, staffID, window)
	if err != nil {
		s.LogError(ctx, err, "Failed to list staff entries", slog.String("staff_id", staffID))
		return nil, storageError("list staff entries", err)
	}
	return rows, nil
}

// Report implements portssvc.LedgerQuerySvc.
func (s *ledgerService) Report(ctx context.Context, filter domain.ReportFilter) ([]domain.ReportRow, error) {
	if filter.Type != nil && !filter.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, *filter.Type)
	}

	q := domain.EntryQuery{
		StudentID: filter.StudentID,
		ClassID:   filter.ClassID,
		Type:      filter.Type,
	}
	if filter.StartDate != nil {
		start, _ := domain.DayBounds(*filter.StartDate, s.location)
		q.Range.From = &start
	}
	if filter.EndDate != nil {
		_, end := domain.DayBounds(*filter.EndDate, s.location)
		q.Range.To = &end
	}
	if q.Range.From != nil && q.Range.To != nil && q.Range.To.Before(*q.Range.From) {
		return nil, fmt.Errorf("%w: end date is before start date", apperrors.ErrValidation)
	}

	rows, err := s.ledgerRepo.FindEntries(ctx, q)
	if err != nil {
		s.LogError(ctx, err, "Failed to build transaction report")
		return nil, storageError("build report", err)
	}
	return rows, nil
}

// DailySummary implements portssvc.LedgerQuerySvc.
func (s *ledgerService) DailySummary(ctx context.Context, date time.Time) (*domain.DailySummary, error) {
	start, end := domain.DayBounds(date, s.location)

	totals, err := s.ledgerRepo.SumEntriesByType(ctx, domain.TimeRange{From: &start, To: &end})
	if err != nil {
		s.LogError(ctx, err, "Failed to build daily summary", slog.Time("day", start))
		return nil, storageError("build daily summary", err)
	}
	summary := domain.NewDailySummary(start, totals)
	return &summary, nil
}
