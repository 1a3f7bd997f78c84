package repository

import (
	"context"
	"fmt"

	"librarium/internal/http-api/models"

	"gorm.io/gorm"
)

type ReservationRepository interface {
	Create(ctx context.Context, res *models.Reservation) error
	GetByID(ctx context.Context, id int64) (*models.Reservation, error)
	Pending(ctx context.Context) ([]models.Reservation, error)
	Update(ctx context.Context, res *models.Reservation) error
	Delete(ctx context.Context, id int64) error
}

type reservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) Create(ctx context.Context, res *models.Reservation) error {
	if err := r.db.WithContext(ctx).Create(res).Error; err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id int64) (*models.Reservation, error) {
	var res models.Reservation
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Preload("User").
		First(&res, id).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *reservationRepository) Pending(ctx context.Context) ([]models.Reservation, error) {
	var list []models.Reservation
	err := r.db.WithContext(ctx).
		Where("status = ?", models.ReservationPending).
		Preload("Book").
		Preload("User").
		Order("request_date asc").
		Find(&list).Error
	return list, err
}

func (r *reservationRepository) Update(ctx context.Context, res *models.Reservation) error {
	if err := r.db.WithContext(ctx).Save(res).Error; err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}
	return nil
}

func (r *reservationRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.Reservation{}, id).Error; err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}
	return nil
}
