package service

import (
	"context"
	"errors"

	"librarium/internal/http-api/dto"
	"librarium/internal/http-api/models"
	"librarium/internal/http-api/repository"
)

var (
	ErrReviewNotEligible = errors.New("user has not returned this book")
	ErrAlreadyReviewed   = errors.New("user already reviewed this book")
)

type ReviewService interface {
	ListForBook(ctx context.Context, bookID int64) (*dto.ReviewListResponse, error)
	Create(ctx context.Context, userID string, req *dto.CreateReviewRequest) (*models.Review, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	loanRepo   repository.LoanRepository
	bookRepo   repository.BookRepository
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	loanRepo repository.LoanRepository,
	bookRepo repository.BookRepository,
) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, loanRepo: loanRepo, bookRepo: bookRepo}
}

func (s *reviewService) ListForBook(ctx context.Context, bookID int64) (*dto.ReviewListResponse, error) {
	reviews, err := s.reviewRepo.ListByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	var average float64
	if len(reviews) > 0 {
		var sum int
		for _, r := range reviews {
			sum += r.Rating
		}
		average = float64(sum) / float64(len(reviews))
	}
	return &dto.ReviewListResponse{Reviews: reviews, AverageRating: average}, nil
}

// Create only accepts reviews from users who borrowed the book and brought
// it back, one review per (user, book).
func (s *reviewService) Create(ctx context.Context, userID string, req *dto.CreateReviewRequest) (*models.Review, error) {
	if _, err := s.bookRepo.GetByID(ctx, req.BookID); err != nil {
		return nil, err
	}

	eligible, err := s.loanRepo.HasReturnedLoan(ctx, userID, req.BookID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, ErrReviewNotEligible
	}

	exists, err := s.reviewRepo.Exists(ctx, userID, req.BookID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	review := &models.Review{
		BookID:  req.BookID,
		UserID:  userID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}
