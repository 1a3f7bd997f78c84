package repository

import (
	"context"
	"fmt"
	"strings"

	"librarium/internal/http-api/models"

	"gorm.io/gorm"
)

type BookRepository interface {
	List(ctx context.Context, page, pageSize int, categoryID *int64, searchTerm string) ([]models.Book, int64, error)
	ListAll(ctx context.Context) ([]models.Book, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	Create(ctx context.Context, b *models.Book) error
	Update(ctx context.Context, b *models.Book) error
	Delete(ctx context.Context, id int64) error

	// DecrementIfAvailable atomically decrements the quantity of the book
	// when it is positive. Returns false when no copy was available.
	DecrementIfAvailable(ctx context.Context, id int64) (bool, error)
	IncrementQuantity(ctx context.Context, id int64) error

	AnyInCategory(ctx context.Context, categoryID int64) (bool, error)
	FindByTitles(ctx context.Context, titles []string, excludeID int64, limit int) ([]models.Book, error)
	SameCategory(ctx context.Context, categoryID, excludeID int64, limit int) ([]models.Book, error)
	CountTitles(ctx context.Context) (int64, error)
	SumQuantities(ctx context.Context) (int64, error)
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) List(ctx context.Context, page, pageSize int, categoryID *int64, searchTerm string) ([]models.Book, int64, error) {
	var list []models.Book
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Book{})
	if categoryID != nil && *categoryID > 0 {
		query = query.Where("category_id = ?", *categoryID)
	}
	if term := strings.TrimSpace(searchTerm); term != "" {
		p := "%" + term + "%"
		query = query.Where("title ILIKE ? OR author ILIKE ?", p, p)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.
		Preload("Category").
		Order("title asc").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *bookRepository) ListAll(ctx context.Context) ([]models.Book, error) {
	var list []models.Book
	if err := r.db.WithContext(ctx).Order("title asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *bookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	var b models.Book
	if err := r.db.WithContext(ctx).Preload("Category").First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookRepository) Create(ctx context.Context, b *models.Book) error {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}

func (r *bookRepository) Update(ctx context.Context, b *models.Book) error {
	if err := r.db.WithContext(ctx).Save(b).Error; err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.Book{}, id).Error; err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return nil
}

// A single conditional UPDATE so concurrent issuance cannot oversell the
// last copy: quantity is only decremented while it is still positive.
func (r *bookRepository) DecrementIfAvailable(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ? AND quantity > 0", id).
		UpdateColumn("quantity", gorm.Expr("quantity - 1"))
	if res.Error != nil {
		return false, fmt.Errorf("decrement quantity: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *bookRepository) IncrementQuantity(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ?", id).
		UpdateColumn("quantity", gorm.Expr("quantity + 1")).Error; err != nil {
		return fmt.Errorf("increment quantity: %w", err)
	}
	return nil
}

func (r *bookRepository) AnyInCategory(ctx context.Context, categoryID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count > 0, err
}

func (r *bookRepository) FindByTitles(ctx context.Context, titles []string, excludeID int64, limit int) ([]models.Book, error) {
	var list []models.Book
	if len(titles) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).
		Where("title IN ? AND id <> ?", titles, excludeID).
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *bookRepository) SameCategory(ctx context.Context, categoryID, excludeID int64, limit int) ([]models.Book, error) {
	var list []models.Book
	err := r.db.WithContext(ctx).
		Where("category_id = ? AND id <> ?", categoryID, excludeID).
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *bookRepository) CountTitles(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Book{}).Count(&count).Error
	return count, err
}

func (r *bookRepository) SumQuantities(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}
