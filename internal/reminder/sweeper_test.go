package reminder

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"librarium/internal/http-api/models"
)

// MockLoanSource mocks the LoanSource interface
type MockLoanSource struct {
	mock.Mock
}

func (m *MockLoanSource) DueBetween(ctx context.Context, from, to time.Time) ([]models.Loan, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Loan), args.Error(1)
}

// MockNotificationStore mocks the NotificationStore interface
type MockNotificationStore struct {
	mock.Mock
}

func (m *MockNotificationStore) Create(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationStore) ExistsForUserWithMessage(ctx context.Context, userID, message string) (bool, error) {
	args := m.Called(ctx, userID, message)
	return args.Bool(0), args.Error(1)
}

func endOfDayIn(days int) time.Time {
	t := time.Now().AddDate(0, 0, days)
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

func TestSweep_RemindsForTodayAndTomorrow(t *testing.T) {
	loans := new(MockLoanSource)
	store := new(MockNotificationStore)
	sweeper := NewSweeper(loans, store, 2*time.Hour, 5*time.Minute, slog.Default())

	loans.On("DueBetween", mock.Anything, mock.Anything, mock.Anything).Return([]models.Loan{
		{ID: 1, UserID: "user-1", DueDate: endOfDayIn(0), Book: &models.Book{Title: "Dune"}},
		{ID: 2, UserID: "user-2", DueDate: endOfDayIn(1), Book: &models.Book{Title: "Hyperion"}},
	}, nil)

	dueToday := "Reminder: Your book 'Dune' is due today!"
	dueTomorrow := "Reminder: Your book 'Hyperion' is due tomorrow."
	store.On("ExistsForUserWithMessage", mock.Anything, "user-1", dueToday).Return(false, nil)
	store.On("ExistsForUserWithMessage", mock.Anything, "user-2", dueTomorrow).Return(false, nil)
	store.On("Create", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
		return n.UserID == "user-1" && n.Message == dueToday && n.URL == "/my-books"
	})).Return(nil)
	store.On("Create", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
		return n.UserID == "user-2" && n.Message == dueTomorrow
	})).Return(nil)

	err := sweeper.Sweep(context.Background())

	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestSweep_SkipsDuplicateReminder(t *testing.T) {
	loans := new(MockLoanSource)
	store := new(MockNotificationStore)
	sweeper := NewSweeper(loans, store, 2*time.Hour, 5*time.Minute, slog.Default())

	loans.On("DueBetween", mock.Anything, mock.Anything, mock.Anything).Return([]models.Loan{
		{ID: 1, UserID: "user-1", DueDate: endOfDayIn(0), Book: &models.Book{Title: "Dune"}},
	}, nil)
	store.On("ExistsForUserWithMessage", mock.Anything, "user-1", mock.Anything).Return(true, nil)

	err := sweeper.Sweep(context.Background())

	assert.NoError(t, err)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSweep_PropagatesQueryError(t *testing.T) {
	loans := new(MockLoanSource)
	store := new(MockNotificationStore)
	sweeper := NewSweeper(loans, store, 2*time.Hour, 5*time.Minute, slog.Default())

	loans.On("DueBetween", mock.Anything, mock.Anything, mock.Anything).Return(nil, assert.AnError)

	err := sweeper.Sweep(context.Background())

	assert.Error(t, err)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	loans := new(MockLoanSource)
	store := new(MockNotificationStore)
	sweeper := NewSweeper(loans, store, time.Hour, time.Hour, slog.Default())

	loans.On("DueBetween", mock.Anything, mock.Anything, mock.Anything).Return([]models.Loan{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on context cancellation")
	}
}

func TestReminderMessage_OutsideWindowIsEmpty(t *testing.T) {
	now := time.Now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	loan := &models.Loan{DueDate: endOfDayIn(5), Book: &models.Book{Title: "Dune"}}
	assert.Empty(t, reminderMessage(loan, startOfToday))
}
