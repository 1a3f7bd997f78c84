package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"librarium/internal/http-api/models"
	"librarium/internal/websocket"
)

func TestNotifyUser_PersistsThenPushes(t *testing.T) {
	notificationRepo := new(MockNotificationRepository)
	userRepo := new(MockUserRepository)
	pusher := new(MockPusher)
	svc := NewNotificationService(notificationRepo, userRepo, pusher, slog.Default())

	notificationRepo.On("Create", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
		return n.UserID == "user-1" && n.Message == "hello" && n.URL == "/my-books"
	})).Return(nil)
	pusher.On("SendToUser", "user-1", websocket.Event{Message: "hello", Severity: websocket.SeverityInfo}).Return()

	err := svc.NotifyUser(context.Background(), "user-1", "hello", "/my-books", websocket.SeverityInfo)

	assert.NoError(t, err)
	notificationRepo.AssertExpectations(t)
	pusher.AssertExpectations(t)
}

func TestNotifyUser_NoPushWhenPersistFails(t *testing.T) {
	notificationRepo := new(MockNotificationRepository)
	pusher := new(MockPusher)
	svc := NewNotificationService(notificationRepo, new(MockUserRepository), pusher, slog.Default())

	notificationRepo.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

	err := svc.NotifyUser(context.Background(), "user-1", "hello", "", websocket.SeverityInfo)

	assert.Error(t, err)
	pusher.AssertNotCalled(t, "SendToUser", mock.Anything, mock.Anything)
}

func TestNotifyLibrarians_OneRowEachOnePush(t *testing.T) {
	notificationRepo := new(MockNotificationRepository)
	userRepo := new(MockUserRepository)
	pusher := new(MockPusher)
	svc := NewNotificationService(notificationRepo, userRepo, pusher, slog.Default())

	userRepo.On("ListByRole", mock.Anything, models.RoleLibrarian).Return([]models.User{
		{ID: "lib-1"}, {ID: "lib-2"},
	}, nil)
	notificationRepo.On("CreateBatch", mock.Anything, mock.MatchedBy(func(batch []models.Notification) bool {
		return len(batch) == 2 && batch[0].UserID == "lib-1" && batch[1].UserID == "lib-2"
	})).Return(nil)
	pusher.On("SendToGroup", websocket.LibrariansGroup,
		websocket.Event{Message: "new request", Severity: websocket.SeverityInfo}).Return()

	err := svc.NotifyLibrarians(context.Background(), "new request", "/manage-reservations", websocket.SeverityInfo)

	assert.NoError(t, err)
	notificationRepo.AssertExpectations(t)
	pusher.AssertExpectations(t)
}

func TestNotifyLibrarians_NoLibrariansSkipsBatch(t *testing.T) {
	notificationRepo := new(MockNotificationRepository)
	userRepo := new(MockUserRepository)
	pusher := new(MockPusher)
	svc := NewNotificationService(notificationRepo, userRepo, pusher, slog.Default())

	userRepo.On("ListByRole", mock.Anything, models.RoleLibrarian).Return([]models.User{}, nil)
	pusher.On("SendToGroup", mock.Anything, mock.Anything).Return()

	err := svc.NotifyLibrarians(context.Background(), "new request", "", websocket.SeverityInfo)

	assert.NoError(t, err)
	notificationRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}
