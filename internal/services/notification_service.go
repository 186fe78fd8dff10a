package services

import (
	"context"

	"gorm.io/gorm"

	apperrors "spendly/internal/errors"
	"spendly/internal/push"
)

// notificationService sends on-demand push notifications to a single user.
type notificationService struct {
	db     *gorm.DB
	users  UserServicer
	sender push.Sender
}

// NewNotificationService creates a new NotificationServicer.
func NewNotificationService(db *gorm.DB, users UserServicer, sender push.Sender) NotificationServicer {
	return &notificationService{db: db, users: users, sender: sender}
}

// SendTestNotification sends a test push to the user's registered device.
func (s *notificationService) SendTestNotification(ctx context.Context, userID uint) error {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user.PushToken == nil || *user.PushToken == "" {
		return apperrors.ErrNoPushToken
	}

	msg := push.Message{
		To:    *user.PushToken,
		Title: "Test notification",
		Body:  "Push notifications are working. You're all set!",
		Data:  map[string]string{"type": "test"},
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return apperrors.Wrap(apperrors.ErrPushFailed, err)
	}
	return nil
}
