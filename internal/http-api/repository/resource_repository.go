package repository

import (
	"context"
	"fmt"

	"librarium/internal/http-api/models"

	"gorm.io/gorm"
)

type ResourceRepository interface {
	Create(ctx context.Context, res *models.DigitalResource) error
	List(ctx context.Context) ([]models.DigitalResource, error)
	GetByID(ctx context.Context, id int64) (*models.DigitalResource, error)
	Delete(ctx context.Context, id int64) error
}

type resourceRepository struct {
	db *gorm.DB
}

func NewResourceRepository(db *gorm.DB) ResourceRepository {
	return &resourceRepository{db: db}
}

func (r *resourceRepository) Create(ctx context.Context, res *models.DigitalResource) error {
	if err := r.db.WithContext(ctx).Create(res).Error; err != nil {
		return fmt.Errorf("create resource: %w", err)
	}
	return nil
}

func (r *resourceRepository) List(ctx context.Context) ([]models.DigitalResource, error) {
	var list []models.DigitalResource
	err := r.db.WithContext(ctx).Order("title asc").Find(&list).Error
	return list, err
}

func (r *resourceRepository) GetByID(ctx context.Context, id int64) (*models.DigitalResource, error) {
	var res models.DigitalResource
	if err := r.db.WithContext(ctx).First(&res, id).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *resourceRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.DigitalResource{}, id).Error; err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	return nil
}
