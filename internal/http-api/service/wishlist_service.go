package service

import (
	"context"
	"errors"

	"librarium/internal/http-api/models"
	"librarium/internal/http-api/repository"
)

var ErrNotInWishlist = errors.New("book not in wishlist")

type WishlistService interface {
	Books(ctx context.Context, userID string) ([]models.Book, error)
	BookIDs(ctx context.Context, userID string) ([]int64, error)
	Add(ctx context.Context, userID string, bookID int64) error
	Remove(ctx context.Context, userID string, bookID int64) error
}

type wishlistService struct {
	wishlistRepo repository.WishlistRepository
	bookRepo     repository.BookRepository
}

func NewWishlistService(wishlistRepo repository.WishlistRepository, bookRepo repository.BookRepository) WishlistService {
	return &wishlistService{wishlistRepo: wishlistRepo, bookRepo: bookRepo}
}

func (s *wishlistService) Books(ctx context.Context, userID string) ([]models.Book, error) {
	return s.wishlistRepo.ListBooks(ctx, userID)
}

func (s *wishlistService) BookIDs(ctx context.Context, userID string) ([]int64, error) {
	return s.wishlistRepo.ListBookIDs(ctx, userID)
}

// Add is idempotent: wishing for a book twice is not an error.
func (s *wishlistService) Add(ctx context.Context, userID string, bookID int64) error {
	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		return err
	}
	exists, err := s.wishlistRepo.Exists(ctx, userID, bookID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.wishlistRepo.Add(ctx, &models.WishlistItem{UserID: userID, BookID: bookID})
}

func (s *wishlistService) Remove(ctx context.Context, userID string, bookID int64) error {
	removed, err := s.wishlistRepo.Remove(ctx, userID, bookID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotInWishlist
	}
	return nil
}
