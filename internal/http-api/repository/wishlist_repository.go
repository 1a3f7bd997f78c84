package repository

import (
	"context"
	"fmt"

	"librarium/internal/http-api/models"

	"gorm.io/gorm"
)

type WishlistRepository interface {
	ListBooks(ctx context.Context, userID string) ([]models.Book, error)
	ListBookIDs(ctx context.Context, userID string) ([]int64, error)
	Exists(ctx context.Context, userID string, bookID int64) (bool, error)
	Add(ctx context.Context, item *models.WishlistItem) error
	Remove(ctx context.Context, userID string, bookID int64) (bool, error)
}

type wishlistRepository struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) WishlistRepository {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) ListBooks(ctx context.Context, userID string) ([]models.Book, error) {
	var books []models.Book
	err := r.db.WithContext(ctx).
		Joins("JOIN wishlist_items ON wishlist_items.book_id = books.id").
		Where("wishlist_items.user_id = ?", userID).
		Find(&books).Error
	return books, err
}

func (r *wishlistRepository) ListBookIDs(ctx context.Context, userID string) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("user_id = ?", userID).
		Pluck("book_id", &ids).Error
	return ids, err
}

func (r *wishlistRepository) Exists(ctx context.Context, userID string, bookID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&count).Error
	return count > 0, err
}

func (r *wishlistRepository) Add(ctx context.Context, item *models.WishlistItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("add wishlist item: %w", err)
	}
	return nil
}

func (r *wishlistRepository) Remove(ctx context.Context, userID string, bookID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&models.WishlistItem{})
	if res.Error != nil {
		return false, fmt.Errorf("remove wishlist item: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
