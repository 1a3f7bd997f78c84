package service

import (
	"context"
	"time"

	"librarium/internal/http-api/repository"
)

// LibraryStats is the headline dashboard block.
type LibraryStats struct {
	TotalTitles  int64 `json:"total_titles"`
	TotalCopies  int64 `json:"total_copies"`
	TotalUsers   int64 `json:"total_users"`
	BooksOnLoan  int64 `json:"books_on_loan"`
	OverdueLoans int64 `json:"overdue_loans"`
}

// InventorySummary reconciles shelf stock against open loans.
type InventorySummary struct {
	TotalTitles      int64 `json:"total_titles"`
	CopiesOnShelf    int64 `json:"copies_on_shelf"`
	CopiesOnLoan     int64 `json:"copies_on_loan"`
	TotalCopiesOwned int64 `json:"total_copies_owned"`
}

type DashboardService interface {
	Stats(ctx context.Context) (*LibraryStats, error)
	MostPopularBooks(ctx context.Context) ([]repository.PopularBook, error)
	UserActivity(ctx context.Context) ([]repository.UserActivity, error)
	FinesCollected(ctx context.Context) (float64, error)
	InventorySummary(ctx context.Context) (*InventorySummary, error)
}

const (
	reportLimit         = 10
	finesCollectedSince = 30 * 24 * time.Hour
)

type dashboardService struct {
	bookRepo repository.BookRepository
	loanRepo repository.LoanRepository
	userRepo repository.UserRepository
}

func NewDashboardService(
	bookRepo repository.BookRepository,
	loanRepo repository.LoanRepository,
	userRepo repository.UserRepository,
) DashboardService {
	return &dashboardService{bookRepo: bookRepo, loanRepo: loanRepo, userRepo: userRepo}
}

func (s *dashboardService) Stats(ctx context.Context) (*LibraryStats, error) {
	titles, err := s.bookRepo.CountTitles(ctx)
	if err != nil {
		return nil, err
	}
	copies, err := s.bookRepo.SumQuantities(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	onLoan, err := s.loanRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	overdue, err := s.loanRepo.CountOverdue(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	return &LibraryStats{
		TotalTitles:  titles,
		TotalCopies:  copies,
		TotalUsers:   users,
		BooksOnLoan:  onLoan,
		OverdueLoans: overdue,
	}, nil
}

func (s *dashboardService) MostPopularBooks(ctx context.Context) ([]repository.PopularBook, error) {
	return s.loanRepo.MostBorrowed(ctx, reportLimit)
}

func (s *dashboardService) UserActivity(ctx context.Context) ([]repository.UserActivity, error) {
	return s.loanRepo.BorrowersByActivity(ctx, reportLimit)
}

func (s *dashboardService) FinesCollected(ctx context.Context) (float64, error) {
	return s.loanRepo.SumFinesSince(ctx, time.Now().Add(-finesCollectedSince))
}

func (s *dashboardService) InventorySummary(ctx context.Context) (*InventorySummary, error) {
	titles, err := s.bookRepo.CountTitles(ctx)
	if err != nil {
		return nil, err
	}
	onShelf, err := s.bookRepo.SumQuantities(ctx)
	if err != nil {
		return nil, err
	}
	onLoan, err := s.loanRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	return &InventorySummary{
		TotalTitles:      titles,
		CopiesOnShelf:    onShelf,
		CopiesOnLoan:     onLoan,
		TotalCopiesOwned: onShelf + onLoan,
	}, nil
}
