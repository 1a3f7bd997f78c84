package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"librarium/internal/http-api/models"
)

// LoanSource is the slice of the loan repository the sweeper reads from.
type LoanSource interface {
	DueBetween(ctx context.Context, from, to time.Time) ([]models.Loan, error)
}

// NotificationStore is the slice of the notification repository the sweeper
// writes to.
type NotificationStore interface {
	Create(ctx context.Context, notification *models.Notification) error
	ExistsForUserWithMessage(ctx context.Context, userID, message string) (bool, error)
}

// Sweeper periodically reminds borrowers about loans due today or tomorrow.
// Reminders are persist-only: members see them on their next page load, which
// is good enough for a day-granularity deadline.
type Sweeper struct {
	loanRepo         LoanSource
	notificationRepo NotificationStore
	interval         time.Duration
	retryInterval    time.Duration
	logger           *slog.Logger
}

func NewSweeper(
	loanRepo LoanSource,
	notificationRepo NotificationStore,
	interval, retryInterval time.Duration,
	logger *slog.Logger,
) *Sweeper {
	return &Sweeper{
		loanRepo:         loanRepo,
		notificationRepo: notificationRepo,
		interval:         interval,
		retryInterval:    retryInterval,
		logger:           logger,
	}
}

// Run sweeps immediately and then on every interval tick. A failed cycle is
// retried sooner. Returns when ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	for {
		wait := s.interval
		if err := s.Sweep(ctx); err != nil {
			s.logger.Error("reminder sweep failed", "error", err, "retry_in", s.retryInterval)
			wait = s.retryInterval
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

// Sweep sends one reminder per (borrower, message). Because the message text
// embeds the due day ("today"/"tomorrow"), the dedupe naturally re-fires when
// a loan moves from due-tomorrow to due-today.
func (s *Sweeper) Sweep(ctx context.Context) error {
	now := time.Now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfTomorrow := startOfToday.AddDate(0, 0, 2)

	loans, err := s.loanRepo.DueBetween(ctx, startOfToday, endOfTomorrow)
	if err != nil {
		return fmt.Errorf("query due loans: %w", err)
	}

	for _, loan := range loans {
		message := reminderMessage(&loan, startOfToday)
		if message == "" {
			continue
		}

		exists, err := s.notificationRepo.ExistsForUserWithMessage(ctx, loan.UserID, message)
		if err != nil {
			return fmt.Errorf("check existing reminder: %w", err)
		}
		if exists {
			continue
		}

		notification := &models.Notification{
			UserID:  loan.UserID,
			Message: message,
			URL:     "/my-books",
		}
		if err := s.notificationRepo.Create(ctx, notification); err != nil {
			return fmt.Errorf("create reminder: %w", err)
		}
		s.logger.Info("due-date reminder created", "user_id", loan.UserID, "loan_id", loan.ID)
	}
	return nil
}

func reminderMessage(loan *models.Loan, startOfToday time.Time) string {
	title := "your book"
	if loan.Book != nil {
		title = loan.Book.Title
	}
	switch {
	case loan.DueDate.Before(startOfToday.AddDate(0, 0, 1)):
		return fmt.Sprintf("Reminder: Your book '%s' is due today!", title)
	case loan.DueDate.Before(startOfToday.AddDate(0, 0, 2)):
		return fmt.Sprintf("Reminder: Your book '%s' is due tomorrow.", title)
	default:
		return ""
	}
}
