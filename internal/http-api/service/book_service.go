package service

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"librarium/internal/cache"
	"librarium/internal/http-api/dto"
	"librarium/internal/http-api/models"
	"librarium/internal/http-api/repository"
)

var ErrBookOnLoan = errors.New("book has active loans")

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type BookService interface {
	ListPage(ctx context.Context, page, pageSize int, categoryID *int64, searchTerm string) (*dto.BookListResponse, error)
	ListAll(ctx context.Context) ([]models.Book, error)
	Get(ctx context.Context, id int64) (*models.Book, error)
	Create(ctx context.Context, req *dto.CreateBookRequest) (*models.Book, error)
	Update(ctx context.Context, id int64, req *dto.UpdateBookRequest) (*models.Book, error)
	Delete(ctx context.Context, id int64) error
}

type bookService struct {
	bookRepo repository.BookRepository
	loanRepo repository.LoanRepository
	cache    *cache.CatalogCache
	logger   *slog.Logger
}

func NewBookService(
	bookRepo repository.BookRepository,
	loanRepo repository.LoanRepository,
	catalogCache *cache.CatalogCache,
	logger *slog.Logger,
) BookService {
	return &bookService{
		bookRepo: bookRepo,
		loanRepo: loanRepo,
		cache:    catalogCache,
		logger:   logger,
	}
}

// ListPage serves the catalog. Unfiltered pages go through the redis cache;
// filtered queries always hit the database because the filter space is
// unbounded.
func (s *bookService) ListPage(ctx context.Context, page, pageSize int, categoryID *int64, searchTerm string) (*dto.BookListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	unfiltered := categoryID == nil && searchTerm == ""
	if unfiltered {
		var cached dto.BookListResponse
		hit, err := s.cache.GetPage(ctx, page, pageSize, &cached)
		if err != nil {
			s.logger.Warn("catalog cache read failed", "error", err)
		} else if hit {
			return &cached, nil
		}
	}

	items, total, err := s.bookRepo.List(ctx, page, pageSize, categoryID, searchTerm)
	if err != nil {
		return nil, err
	}
	resp := &dto.BookListResponse{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}

	if unfiltered {
		if err := s.cache.SetPage(ctx, page, pageSize, resp); err != nil {
			s.logger.Warn("catalog cache write failed", "error", err)
		}
	}
	return resp, nil
}

func (s *bookService) ListAll(ctx context.Context) ([]models.Book, error) {
	return s.bookRepo.ListAll(ctx)
}

func (s *bookService) Get(ctx context.Context, id int64) (*models.Book, error) {
	return s.bookRepo.GetByID(ctx, id)
}

func (s *bookService) Create(ctx context.Context, req *dto.CreateBookRequest) (*models.Book, error) {
	book := &models.Book{
		Title:         req.Title,
		Author:        req.Author,
		ISBN:          req.ISBN,
		PublishedDate: req.PublishedDate,
		Quantity:      req.Quantity,
		CategoryID:    req.CategoryID,
		Description:   req.Description,
		CoverImageURL: req.CoverImageURL,
	}
	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, err
	}
	s.invalidateCatalog(ctx)
	return book, nil
}

func (s *bookService) Update(ctx context.Context, id int64, req *dto.UpdateBookRequest) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	book.Title = req.Title
	book.Author = req.Author
	book.ISBN = req.ISBN
	book.PublishedDate = req.PublishedDate
	book.Quantity = req.Quantity
	book.CategoryID = req.CategoryID
	book.Description = req.Description
	book.CoverImageURL = req.CoverImageURL
	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}
	s.invalidateCatalog(ctx)
	return book, nil
}

// Delete refuses while any copy is still out on loan; loan rows reference
// the book forever, so the guard is on active loans only.
func (s *bookService) Delete(ctx context.Context, id int64) error {
	if _, err := s.bookRepo.GetByID(ctx, id); err != nil {
		return err
	}
	active, err := s.loanRepo.HasActiveLoanForBook(ctx, id)
	if err != nil {
		return err
	}
	if active {
		return ErrBookOnLoan
	}
	if err := s.bookRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCatalog(ctx)
	return nil
}

func (s *bookService) invalidateCatalog(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("catalog cache invalidation failed", "error", err)
	}
}
