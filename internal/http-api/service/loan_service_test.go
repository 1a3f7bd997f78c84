package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"librarium/internal/http-api/models"
)

func newLoanServiceForTest() (LoanService, *MockLoanRepository, *MockBookRepository, *MockUserRepository) {
	loanRepo := new(MockLoanRepository)
	bookRepo := new(MockBookRepository)
	userRepo := new(MockUserRepository)
	svc := NewLoanService(loanRepo, bookRepo, userRepo, LoanPolicy{FinePerDay: 0.25})
	return svc, loanRepo, bookRepo, userRepo
}

func TestIssue_Success(t *testing.T) {
	svc, loanRepo, bookRepo, userRepo := newLoanServiceForTest()

	userRepo.On("FindByID", mock.Anything, "user-1").Return(&models.User{ID: "user-1", Role: models.RoleStudent}, nil)
	bookRepo.On("GetByID", mock.Anything, int64(7)).Return(&models.Book{ID: 7, Title: "Dune", Quantity: 2}, nil)
	bookRepo.On("DecrementIfAvailable", mock.Anything, int64(7)).Return(true, nil)
	loanRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Loan")).Return(nil)

	loan, err := svc.Issue(context.Background(), "user-1", 7)

	assert.NoError(t, err)
	assert.Equal(t, "user-1", loan.UserID)
	assert.Equal(t, int64(7), loan.BookID)
	// Students get one day on the counter-issue path, due at end of day.
	tomorrow := time.Now().AddDate(0, 0, 1)
	assert.Equal(t, tomorrow.Day(), loan.DueDate.Day())
	assert.Equal(t, 23, loan.DueDate.Hour())
	bookRepo.AssertExpectations(t)
	loanRepo.AssertExpectations(t)
}

func TestIssue_TeacherGetsLongerPeriod(t *testing.T) {
	svc, loanRepo, bookRepo, userRepo := newLoanServiceForTest()

	userRepo.On("FindByID", mock.Anything, "teacher-1").Return(&models.User{ID: "teacher-1", Role: models.RoleTeacher}, nil)
	bookRepo.On("GetByID", mock.Anything, int64(7)).Return(&models.Book{ID: 7, Quantity: 1}, nil)
	bookRepo.On("DecrementIfAvailable", mock.Anything, int64(7)).Return(true, nil)
	loanRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Loan")).Return(nil)

	loan, err := svc.Issue(context.Background(), "teacher-1", 7)

	assert.NoError(t, err)
	inThree := time.Now().AddDate(0, 0, 3)
	assert.Equal(t, inThree.Day(), loan.DueDate.Day())
}

func TestIssue_NoCopiesAvailable(t *testing.T) {
	svc, loanRepo, bookRepo, userRepo := newLoanServiceForTest()

	userRepo.On("FindByID", mock.Anything, "user-1").Return(&models.User{ID: "user-1", Role: models.RoleStudent}, nil)
	bookRepo.On("GetByID", mock.Anything, int64(7)).Return(&models.Book{ID: 7, Quantity: 0}, nil)
	bookRepo.On("DecrementIfAvailable", mock.Anything, int64(7)).Return(false, nil)

	loan, err := svc.Issue(context.Background(), "user-1", 7)

	assert.Nil(t, loan)
	assert.Equal(t, ErrBookUnavailable, err)
	loanRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestIssue_UnknownBook(t *testing.T) {
	svc, _, bookRepo, userRepo := newLoanServiceForTest()

	userRepo.On("FindByID", mock.Anything, "user-1").Return(&models.User{ID: "user-1"}, nil)
	bookRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Issue(context.Background(), "user-1", 99)

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	bookRepo.AssertNotCalled(t, "DecrementIfAvailable", mock.Anything, mock.Anything)
}

func TestReturn_OnTimeHasNoFine(t *testing.T) {
	svc, loanRepo, bookRepo, _ := newLoanServiceForTest()

	due := time.Now().AddDate(0, 0, 2)
	loan := &models.Loan{ID: 1, BookID: 7, UserID: "user-1", DueDate: due}
	loanRepo.On("GetByID", mock.Anything, int64(1)).Return(loan, nil)
	loanRepo.On("Update", mock.Anything, loan).Return(nil)
	bookRepo.On("IncrementQuantity", mock.Anything, int64(7)).Return(nil)

	returned, err := svc.Return(context.Background(), 1)

	assert.NoError(t, err)
	assert.NotNil(t, returned.ReturnDate)
	assert.Zero(t, returned.FineAmount)
	bookRepo.AssertExpectations(t)
}

func TestReturn_OverdueAccruesCalendarDayFine(t *testing.T) {
	svc, loanRepo, bookRepo, _ := newLoanServiceForTest()

	due := time.Now().AddDate(0, 0, -3)
	loan := &models.Loan{ID: 1, BookID: 7, UserID: "user-1", DueDate: due}
	loanRepo.On("GetByID", mock.Anything, int64(1)).Return(loan, nil)
	loanRepo.On("Update", mock.Anything, loan).Return(nil)
	bookRepo.On("IncrementQuantity", mock.Anything, int64(7)).Return(nil)

	returned, err := svc.Return(context.Background(), 1)

	assert.NoError(t, err)
	assert.InDelta(t, 0.75, returned.FineAmount, 0.001)
}

func TestReturn_AlreadyReturned(t *testing.T) {
	svc, loanRepo, bookRepo, _ := newLoanServiceForTest()

	past := time.Now().AddDate(0, 0, -1)
	loan := &models.Loan{ID: 1, BookID: 7, ReturnDate: &past}
	loanRepo.On("GetByID", mock.Anything, int64(1)).Return(loan, nil)

	_, err := svc.Return(context.Background(), 1)

	assert.Equal(t, ErrAlreadyReturned, err)
	bookRepo.AssertNotCalled(t, "IncrementQuantity", mock.Anything, mock.Anything)
}

func TestRenew_ExtendsFromCurrentDueDate(t *testing.T) {
	svc, loanRepo, _, userRepo := newLoanServiceForTest()

	due := time.Date(2026, 9, 10, 23, 59, 59, 0, time.UTC)
	loan := &models.Loan{ID: 1, UserID: "user-1", DueDate: due, RenewalCount: 0}
	loanRepo.On("GetByID", mock.Anything, int64(1)).Return(loan, nil)
	userRepo.On("FindByID", mock.Anything, "user-1").Return(&models.User{ID: "user-1", Role: models.RoleStudent}, nil)
	loanRepo.On("Update", mock.Anything, loan).Return(nil)

	renewed, err := svc.Renew(context.Background(), 1, "user-1")

	assert.NoError(t, err)
	assert.Equal(t, due.AddDate(0, 0, 7), renewed.DueDate)
	assert.Equal(t, 1, renewed.RenewalCount)
}

func TestRenew_RejectedAtLimit(t *testing.T) {
	svc, loanRepo, _, _ := newLoanServiceForTest()

	loan := &models.Loan{ID: 1, UserID: "user-1", DueDate: time.Now(), RenewalCount: MaxRenewals}
	loanRepo.On("GetByID", mock.Anything, int64(1)).Return(loan, nil)

	_, err := svc.Renew(context.Background(), 1, "user-1")

	assert.Equal(t, ErrRenewLimit, err)
	loanRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRenew_OnlyOwnerMayRenew(t *testing.T) {
	svc, loanRepo, _, _ := newLoanServiceForTest()

	loan := &models.Loan{ID: 1, UserID: "user-1", DueDate: time.Now()}
	loanRepo.On("GetByID", mock.Anything, int64(1)).Return(loan, nil)

	_, err := svc.Renew(context.Background(), 1, "someone-else")

	assert.Equal(t, ErrNotLoanOwner, err)
}

func TestPayFine_Success(t *testing.T) {
	svc, loanRepo, _, _ := newLoanServiceForTest()

	loan := &models.Loan{ID: 1, FineAmount: 1.25, FinePaid: false}
	loanRepo.On("GetByID", mock.Anything, int64(1)).Return(loan, nil)
	loanRepo.On("Update", mock.Anything, loan).Return(nil)

	paid, err := svc.PayFine(context.Background(), 1)

	assert.NoError(t, err)
	assert.True(t, paid.FinePaid)
}

func TestPayFine_NothingOwed(t *testing.T) {
	svc, loanRepo, _, _ := newLoanServiceForTest()

	loanRepo.On("GetByID", mock.Anything, int64(1)).Return(&models.Loan{ID: 1, FineAmount: 0}, nil)

	_, err := svc.PayFine(context.Background(), 1)

	assert.Equal(t, ErrNoFine, err)
}

func TestPayFine_AlreadyPaid(t *testing.T) {
	svc, loanRepo, _, _ := newLoanServiceForTest()

	loanRepo.On("GetByID", mock.Anything, int64(1)).Return(&models.Loan{ID: 1, FineAmount: 0.5, FinePaid: true}, nil)

	_, err := svc.PayFine(context.Background(), 1)

	assert.Equal(t, ErrFineAlreadyPaid, err)
}
