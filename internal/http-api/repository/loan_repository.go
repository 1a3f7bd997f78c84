package repository

import (
	"context"
	"fmt"
	"time"

	"librarium/internal/http-api/models"

	"gorm.io/gorm"
)

// PopularBook is a loan-count aggregate for the dashboard reports.
type PopularBook struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	LoanCount int64  `json:"loan_count"`
}

// UserActivity counts loans per user for the dashboard reports.
type UserActivity struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	BooksBorrowed int64  `json:"books_borrowed"`
}

type LoanRepository interface {
	Create(ctx context.Context, l *models.Loan) error
	GetByID(ctx context.Context, id int64) (*models.Loan, error)
	Update(ctx context.Context, l *models.Loan) error

	AllActive(ctx context.Context) ([]models.Loan, error)
	ActiveByUser(ctx context.Context, userID string) ([]models.Loan, error)
	HistoryByUser(ctx context.Context, userID string) ([]models.Loan, error)
	OutstandingFines(ctx context.Context) ([]models.Loan, error)

	HasActiveLoanForBook(ctx context.Context, bookID int64) (bool, error)
	HasReturnedLoan(ctx context.Context, userID string, bookID int64) (bool, error)
	DueBetween(ctx context.Context, from, to time.Time) ([]models.Loan, error)

	CountActive(ctx context.Context) (int64, error)
	CountOverdue(ctx context.Context, now time.Time) (int64, error)
	SumFinesSince(ctx context.Context, since time.Time) (float64, error)
	MostBorrowed(ctx context.Context, limit int) ([]PopularBook, error)
	BorrowersByActivity(ctx context.Context, limit int) ([]UserActivity, error)
}

type loanRepository struct {
	db *gorm.DB
}

func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, l *models.Loan) error {
	if err := r.db.WithContext(ctx).Create(l).Error; err != nil {
		return fmt.Errorf("create loan: %w", err)
	}
	return nil
}

func (r *loanRepository) GetByID(ctx context.Context, id int64) (*models.Loan, error) {
	var l models.Loan
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Preload("User").
		First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *loanRepository) Update(ctx context.Context, l *models.Loan) error {
	if err := r.db.WithContext(ctx).Save(l).Error; err != nil {
		return fmt.Errorf("update loan: %w", err)
	}
	return nil
}

func (r *loanRepository) AllActive(ctx context.Context) ([]models.Loan, error) {
	var list []models.Loan
	err := r.db.WithContext(ctx).
		Where("return_date IS NULL").
		Preload("Book").
		Preload("User").
		Order("due_date asc").
		Find(&list).Error
	return list, err
}

func (r *loanRepository) ActiveByUser(ctx context.Context, userID string) ([]models.Loan, error) {
	var list []models.Loan
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND return_date IS NULL", userID).
		Preload("Book").
		Order("due_date asc").
		Find(&list).Error
	return list, err
}

func (r *loanRepository) HistoryByUser(ctx context.Context, userID string) ([]models.Loan, error) {
	var list []models.Loan
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND return_date IS NOT NULL", userID).
		Preload("Book").
		Order("return_date desc").
		Find(&list).Error
	return list, err
}

func (r *loanRepository) OutstandingFines(ctx context.Context) ([]models.Loan, error) {
	var list []models.Loan
	err := r.db.WithContext(ctx).
		Where("fine_amount > 0 AND fine_paid = false").
		Preload("Book").
		Preload("User").
		Order("return_date desc").
		Find(&list).Error
	return list, err
}

func (r *loanRepository) HasActiveLoanForBook(ctx context.Context, bookID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("book_id = ? AND return_date IS NULL", bookID).
		Count(&count).Error
	return count > 0, err
}

func (r *loanRepository) HasReturnedLoan(ctx context.Context, userID string, bookID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("user_id = ? AND book_id = ? AND return_date IS NOT NULL", userID, bookID).
		Count(&count).Error
	return count > 0, err
}

// DueBetween returns active loans whose due date falls in [from, to).
func (r *loanRepository) DueBetween(ctx context.Context, from, to time.Time) ([]models.Loan, error) {
	var list []models.Loan
	err := r.db.WithContext(ctx).
		Where("return_date IS NULL AND due_date >= ? AND due_date < ?", from, to).
		Preload("Book").
		Find(&list).Error
	return list, err
}

func (r *loanRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("return_date IS NULL").
		Count(&count).Error
	return count, err
}

func (r *loanRepository) CountOverdue(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("return_date IS NULL AND due_date < ?", now).
		Count(&count).Error
	return count, err
}

func (r *loanRepository) SumFinesSince(ctx context.Context, since time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("return_date IS NOT NULL AND return_date >= ?", since).
		Select("COALESCE(SUM(fine_amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *loanRepository) MostBorrowed(ctx context.Context, limit int) ([]PopularBook, error) {
	var report []PopularBook
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Select("books.title AS title, books.author AS author, COUNT(loans.id) AS loan_count").
		Joins("JOIN books ON books.id = loans.book_id").
		Group("books.title, books.author").
		Order("loan_count desc").
		Limit(limit).
		Scan(&report).Error
	return report, err
}

func (r *loanRepository) BorrowersByActivity(ctx context.Context, limit int) ([]UserActivity, error) {
	var report []UserActivity
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("users.username AS username, users.email AS email, COUNT(loans.id) AS books_borrowed").
		Joins("LEFT JOIN loans ON loans.user_id = users.id").
		Group("users.username, users.email").
		Order("books_borrowed desc").
		Limit(limit).
		Scan(&report).Error
	return report, err
}
