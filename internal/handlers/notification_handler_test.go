package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "spendly/internal/errors"
	"spendly/internal/notifier"
	"spendly/internal/services"
)

type mockNotificationService struct {
	sendTestNotificationFn func(ctx context.Context, userID uint) error
}

func (m *mockNotificationService) SendTestNotification(ctx context.Context, userID uint) error {
	if m.sendTestNotificationFn != nil {
		return m.sendTestNotificationFn(ctx, userID)
	}
	return nil
}

var _ services.NotificationServicer = (*mockNotificationService)(nil)

type fakeRunner struct {
	runFn func(ctx context.Context, now time.Time) (*notifier.Result, error)
}

func (f *fakeRunner) Run(ctx context.Context, now time.Time) (*notifier.Result, error) {
	if f.runFn != nil {
		return f.runFn(ctx, now)
	}
	return &notifier.Result{}, nil
}

func setupNotificationRouter(handler *NotificationHandler) *gin.Engine {
	r := gin.New()
	r.POST("/notifications/test", injectUserID(1), handler.SendTest)
	r.POST("/jobs/notifications/run", handler.RunNotifier)
	return r
}

func TestNotificationHandler_SendTest(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		var sentTo uint
		svc := &mockNotificationService{
			sendTestNotificationFn: func(_ context.Context, userID uint) error {
				sentTo = userID
				return nil
			},
		}
		handler := NewNotificationHandler(svc, &fakeRunner{})
		r := setupNotificationRouter(handler)

		rec := doRequest(r, "POST", "/notifications/test", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if sentTo != 1 {
			t.Errorf("expected notification for user 1, got %d", sentTo)
		}
	})

	t.Run("returns 400 without a push token", func(t *testing.T) {
		svc := &mockNotificationService{
			sendTestNotificationFn: func(_ context.Context, _ uint) error {
				return apperrors.ErrNoPushToken
			},
		}
		handler := NewNotificationHandler(svc, &fakeRunner{})
		r := setupNotificationRouter(handler)

		rec := doRequest(r, "POST", "/notifications/test", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "NO_PUSH_TOKEN")
	})
}

func TestNotificationHandler_RunNotifier(t *testing.T) {
	t.Run("returns the run result", func(t *testing.T) {
		runner := &fakeRunner{
			runFn: func(_ context.Context, _ time.Time) (*notifier.Result, error) {
				return &notifier.Result{
					Scanned:  10,
					Sent:     7,
					Skipped:  2,
					Duration: 120 * time.Millisecond,
				}, nil
			},
		}
		handler := NewNotificationHandler(&mockNotificationService{}, runner)
		r := setupNotificationRouter(handler)

		rec := doRequest(r, "POST", "/jobs/notifications/run", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["scanned"].(float64) != 10 {
			t.Errorf("expected 10 scanned, got %v", result["scanned"])
		}
		if result["sent"].(float64) != 7 {
			t.Errorf("expected 7 sent, got %v", result["sent"])
		}
	})
}
