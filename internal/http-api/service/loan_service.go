package service

import (
	"context"
	"errors"
	"time"

	"librarium/internal/http-api/models"
	"librarium/internal/http-api/repository"
)

var (
	ErrBookUnavailable = errors.New("book not available")
	ErrAlreadyReturned = errors.New("loan already returned")
	ErrRenewLimit      = errors.New("renewal limit reached")
	ErrNotLoanOwner    = errors.New("loan belongs to another user")
	ErrNoFine          = errors.New("loan has no fine")
	ErrFineAlreadyPaid = errors.New("fine already paid")
)

type LoanService interface {
	Issue(ctx context.Context, userID string, bookID int64) (*models.Loan, error)
	Return(ctx context.Context, loanID int64) (*models.Loan, error)
	Renew(ctx context.Context, loanID int64, userID string) (*models.Loan, error)
	PayFine(ctx context.Context, loanID int64) (*models.Loan, error)

	AllActive(ctx context.Context) ([]models.Loan, error)
	MyLoans(ctx context.Context, userID string) ([]models.Loan, error)
	MyHistory(ctx context.Context, userID string) ([]models.Loan, error)
	OutstandingFines(ctx context.Context) ([]models.Loan, error)
}

type loanService struct {
	loanRepo repository.LoanRepository
	bookRepo repository.BookRepository
	userRepo repository.UserRepository
	policy   LoanPolicy
}

func NewLoanService(
	loanRepo repository.LoanRepository,
	bookRepo repository.BookRepository,
	userRepo repository.UserRepository,
	policy LoanPolicy,
) LoanService {
	return &loanService{
		loanRepo: loanRepo,
		bookRepo: bookRepo,
		userRepo: userRepo,
		policy:   policy,
	}
}

// Issue hands a copy to a user over the counter. The quantity decrement is a
// single conditional UPDATE, so two librarians racing for the last copy
// cannot both win.
func (s *loanService) Issue(ctx context.Context, userID string, bookID int64) (*models.Loan, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		return nil, err
	}

	ok, err := s.bookRepo.DecrementIfAvailable(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrBookUnavailable
	}

	now := time.Now()
	loan := &models.Loan{
		BookID:   bookID,
		UserID:   userID,
		LoanDate: now,
		DueDate:  s.policy.DueDate(PathIssue, user.Role, now),
	}
	if err := s.loanRepo.Create(ctx, loan); err != nil {
		// Put the copy back so the shelf count stays honest.
		s.bookRepo.IncrementQuantity(ctx, bookID)
		return nil, err
	}
	return loan, nil
}

func (s *loanService) Return(ctx context.Context, loanID int64) (*models.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.Returned() {
		return nil, ErrAlreadyReturned
	}

	now := time.Now()
	loan.ReturnDate = &now
	loan.FineAmount = s.policy.Fine(loan.DueDate, now)
	if err := s.loanRepo.Update(ctx, loan); err != nil {
		return nil, err
	}
	if err := s.bookRepo.IncrementQuantity(ctx, loan.BookID); err != nil {
		return nil, err
	}
	return loan, nil
}

// Renew extends the due date from its current value, so renewing early does
// not shorten the loan. Only the borrower can renew.
func (s *loanService) Renew(ctx context.Context, loanID int64, userID string) (*models.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.UserID != userID {
		return nil, ErrNotLoanOwner
	}
	if loan.Returned() {
		return nil, ErrAlreadyReturned
	}
	if !s.policy.CanRenew(loan) {
		return nil, ErrRenewLimit
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	loan.DueDate = s.policy.RenewedDueDate(loan.DueDate, user.Role)
	loan.RenewalCount++
	if err := s.loanRepo.Update(ctx, loan); err != nil {
		return nil, err
	}
	return loan, nil
}

func (s *loanService) PayFine(ctx context.Context, loanID int64) (*models.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.FineAmount <= 0 {
		return nil, ErrNoFine
	}
	if loan.FinePaid {
		return nil, ErrFineAlreadyPaid
	}
	loan.FinePaid = true
	if err := s.loanRepo.Update(ctx, loan); err != nil {
		return nil, err
	}
	return loan, nil
}

func (s *loanService) AllActive(ctx context.Context) ([]models.Loan, error) {
	return s.loanRepo.AllActive(ctx)
}

func (s *loanService) MyLoans(ctx context.Context, userID string) ([]models.Loan, error) {
	return s.loanRepo.ActiveByUser(ctx, userID)
}

func (s *loanService) MyHistory(ctx context.Context, userID string) ([]models.Loan, error) {
	return s.loanRepo.HistoryByUser(ctx, userID)
}

func (s *loanService) OutstandingFines(ctx context.Context) ([]models.Loan, error) {
	return s.loanRepo.OutstandingFines(ctx)
}
