package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"librarium/internal/http-api/models"
	"librarium/internal/http-api/repository"
	"librarium/internal/websocket"
)

var ErrReservationNotPending = errors.New("reservation is not pending")

type ReservationService interface {
	Create(ctx context.Context, userID string, bookID int64) (*models.Reservation, error)
	Pending(ctx context.Context) ([]models.Reservation, error)
	Approve(ctx context.Context, id int64) (*models.Loan, error)
	Reject(ctx context.Context, id int64) error
}

type reservationService struct {
	reservationRepo repository.ReservationRepository
	bookRepo        repository.BookRepository
	userRepo        repository.UserRepository
	loanRepo        repository.LoanRepository
	notifications   NotificationService
	policy          LoanPolicy
	logger          *slog.Logger
}

func NewReservationService(
	reservationRepo repository.ReservationRepository,
	bookRepo repository.BookRepository,
	userRepo repository.UserRepository,
	loanRepo repository.LoanRepository,
	notifications NotificationService,
	policy LoanPolicy,
	logger *slog.Logger,
) ReservationService {
	return &reservationService{
		reservationRepo: reservationRepo,
		bookRepo:        bookRepo,
		userRepo:        userRepo,
		loanRepo:        loanRepo,
		notifications:   notifications,
		policy:          policy,
		logger:          logger,
	}
}

// Create records a pending borrow request and tells the staff about it.
// Notification failures never fail the reservation.
func (s *reservationService) Create(ctx context.Context, userID string, bookID int64) (*models.Reservation, error) {
	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	reservation := &models.Reservation{
		BookID:      bookID,
		UserID:      userID,
		RequestDate: time.Now(),
		Status:      models.ReservationPending,
	}
	if err := s.reservationRepo.Create(ctx, reservation); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("%s requested to borrow '%s'.", user.Username, book.Title)
	if err := s.notifications.NotifyLibrarians(ctx, message, "/manage-reservations", websocket.SeverityInfo); err != nil {
		s.logger.Warn("failed to notify librarians about reservation", "error", err, "reservation_id", reservation.ID)
	}
	return reservation, nil
}

func (s *reservationService) Pending(ctx context.Context) ([]models.Reservation, error) {
	return s.reservationRepo.Pending(ctx)
}

// Approve turns a pending reservation into a loan. The reservation loan
// period is longer than the counter-issue one because the member still has
// to come pick the book up.
func (s *reservationService) Approve(ctx context.Context, id int64) (*models.Loan, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reservation.Status != models.ReservationPending {
		return nil, ErrReservationNotPending
	}

	ok, err := s.bookRepo.DecrementIfAvailable(ctx, reservation.BookID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrBookUnavailable
	}

	role := ""
	if reservation.User != nil {
		role = reservation.User.Role
	}
	now := time.Now()
	loan := &models.Loan{
		BookID:   reservation.BookID,
		UserID:   reservation.UserID,
		LoanDate: now,
		DueDate:  s.policy.DueDate(PathReservation, role, now),
	}
	if err := s.loanRepo.Create(ctx, loan); err != nil {
		s.bookRepo.IncrementQuantity(ctx, reservation.BookID)
		return nil, err
	}

	reservation.Status = models.ReservationApproved
	if err := s.reservationRepo.Update(ctx, reservation); err != nil {
		return nil, err
	}

	title := s.bookTitle(reservation)
	message := fmt.Sprintf("Your reservation for '%s' has been approved. The book is due on %s.",
		title, loan.DueDate.Format("Jan 2, 2006"))
	if err := s.notifications.NotifyUser(ctx, reservation.UserID, message, "/my-books", websocket.SeveritySuccess); err != nil {
		s.logger.Warn("failed to notify user about approval", "error", err, "reservation_id", id)
	}
	return loan, nil
}

// Reject removes the reservation outright; there is no rejected state to
// page through later.
func (s *reservationService) Reject(ctx context.Context, id int64) error {
	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if reservation.Status != models.ReservationPending {
		return ErrReservationNotPending
	}
	if err := s.reservationRepo.Delete(ctx, id); err != nil {
		return err
	}

	message := fmt.Sprintf("Your reservation for '%s' has been rejected.", s.bookTitle(reservation))
	if err := s.notifications.NotifyUser(ctx, reservation.UserID, message, "/books", websocket.SeverityWarning); err != nil {
		s.logger.Warn("failed to notify user about rejection", "error", err, "reservation_id", id)
	}
	return nil
}

func (s *reservationService) bookTitle(reservation *models.Reservation) string {
	if reservation.Book != nil {
		return reservation.Book.Title
	}
	return "your reserved book"
}
