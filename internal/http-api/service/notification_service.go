package service

import (
	"context"
	"log/slog"

	"librarium/internal/http-api/models"
	"librarium/internal/http-api/repository"
	"librarium/internal/websocket"
)

// Pusher delivers realtime events. Satisfied by *websocket.Hub; a nil Pusher
// disables push without touching persistence.
type Pusher interface {
	SendToUser(userID string, event websocket.Event)
	SendToGroup(group string, event websocket.Event)
}

type NotificationService interface {
	// NotifyUser persists a notification and then pushes it. The row is the
	// source of truth; a failed push is not reported to the caller.
	NotifyUser(ctx context.Context, userID, message, url, severity string) error
	// NotifyLibrarians persists one notification per librarian and pushes a
	// single event to the shared librarians group.
	NotifyLibrarians(ctx context.Context, message, url, severity string) error

	RecentForUser(ctx context.Context, userID string) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkAllAsRead(ctx context.Context, userID string) error
}

// recentLimit caps the notification feed; older rows stay queryable in the DB
// but are not surfaced.
const recentLimit = 10

type notificationService struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	pusher           Pusher
	logger           *slog.Logger
}

func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	pusher Pusher,
	logger *slog.Logger,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		pusher:           pusher,
		logger:           logger,
	}
}

func (s *notificationService) NotifyUser(ctx context.Context, userID, message, url, severity string) error {
	n := &models.Notification{
		UserID:  userID,
		Message: message,
		URL:     url,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return err
	}
	if s.pusher != nil {
		s.pusher.SendToUser(userID, websocket.Event{Message: message, Severity: severity})
	}
	return nil
}

func (s *notificationService) NotifyLibrarians(ctx context.Context, message, url, severity string) error {
	librarians, err := s.userRepo.ListByRole(ctx, models.RoleLibrarian)
	if err != nil {
		return err
	}
	if len(librarians) > 0 {
		batch := make([]models.Notification, 0, len(librarians))
		for _, l := range librarians {
			batch = append(batch, models.Notification{
				UserID:  l.ID,
				Message: message,
				URL:     url,
			})
		}
		if err := s.notificationRepo.CreateBatch(ctx, batch); err != nil {
			return err
		}
	}
	if s.pusher != nil {
		s.pusher.SendToGroup(websocket.LibrariansGroup, websocket.Event{Message: message, Severity: severity})
	}
	return nil
}

func (s *notificationService) RecentForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	return s.notificationRepo.RecentByUser(ctx, userID, recentLimit)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.notificationRepo.UnreadCount(ctx, userID)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	return s.notificationRepo.MarkAllAsRead(ctx, userID)
}
