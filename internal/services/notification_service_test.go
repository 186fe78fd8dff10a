package services

import (
	"context"
	"fmt"
	"testing"

	"spendly/internal/push"
	"spendly/internal/testutil"
)

type stubSender struct {
	sent []push.Message
	err  error
}

func (s *stubSender) Send(_ context.Context, msg push.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

var _ push.Sender = (*stubSender)(nil)

func TestNotificationService_SendTestNotification(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	users := NewUserService(db)

	t.Run("sends to the registered token", func(t *testing.T) {
		user := testutil.CreateTestUserWithPushToken(t, db, "ExponentPushToken[abc]")
		sender := &stubSender{}
		svc := NewNotificationService(db, users, sender)

		testutil.AssertNoError(t, svc.SendTestNotification(context.Background(), user.ID))

		if len(sender.sent) != 1 {
			t.Fatalf("expected 1 message, got %d", len(sender.sent))
		}
		msg := sender.sent[0]
		if msg.To != "ExponentPushToken[abc]" {
			t.Errorf("unexpected recipient %q", msg.To)
		}
		if msg.Data["type"] != "test" {
			t.Errorf("expected test payload type, got %q", msg.Data["type"])
		}
	})

	t.Run("fails without a push token", func(t *testing.T) {
		user := testutil.CreateTestUser(t, db)
		svc := NewNotificationService(db, users, &stubSender{})

		err := svc.SendTestNotification(context.Background(), user.ID)
		testutil.AssertAppError(t, err, "NO_PUSH_TOKEN")
	})

	t.Run("wraps provider failures", func(t *testing.T) {
		user := testutil.CreateTestUserWithPushToken(t, db, "ExponentPushToken[down]")
		sender := &stubSender{err: fmt.Errorf("provider unavailable")}
		svc := NewNotificationService(db, users, sender)

		err := svc.SendTestNotification(context.Background(), user.ID)
		testutil.AssertAppError(t, err, "PUSH_FAILED")
	})

	t.Run("unknown user", func(t *testing.T) {
		svc := NewNotificationService(db, users, &stubSender{})
		err := svc.SendTestNotification(context.Background(), 99999)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}
