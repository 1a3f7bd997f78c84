package repository

import (
	"context"
	"fmt"

	"librarium/internal/http-api/models"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	ListByBook(ctx context.Context, bookID int64) ([]models.Review, error)
	Exists(ctx context.Context, userID string, bookID int64) (bool, error)
	Create(ctx context.Context, review *models.Review) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) ListByBook(ctx context.Context, bookID int64) ([]models.Review, error) {
	var list []models.Review
	err := r.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Preload("User").
		Order("date_posted desc").
		Find(&list).Error
	return list, err
}

func (r *reviewRepository) Exists(ctx context.Context, userID string, bookID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&count).Error
	return count > 0, err
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}
