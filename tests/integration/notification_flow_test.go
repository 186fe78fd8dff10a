package integration

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestNotificationFlow_TestPush(t *testing.T) {
	app := setupApp(t)
	accessToken, _, _ := app.registerUser(t, "notify@test.com", "password123")

	// No token registered yet
	rec := app.request("POST", "/api/v1/notifications/test", "", accessToken)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without a token, got %d: %s", rec.Code, rec.Body.String())
	}
	assertErrorCode(t, rec, "NO_PUSH_TOKEN")

	// Register a token and retry
	rec = app.request("PUT", "/api/v1/profile/push-token",
		`{"push_token":"ExponentPushToken[flow]"}`, accessToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("push token update failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("POST", "/api/v1/notifications/test", "", accessToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("test push failed: %d %s", rec.Code, rec.Body.String())
	}
	if len(app.Sender.sent) != 1 {
		t.Fatalf("expected 1 push, got %d", len(app.Sender.sent))
	}
	if app.Sender.sent[0].To != "ExponentPushToken[flow]" {
		t.Errorf("unexpected recipient %q", app.Sender.sent[0].To)
	}
}

func TestNotificationFlow_BudgetReminderJob(t *testing.T) {
	app := setupApp(t)
	accessToken, _, _ := app.registerUser(t, "reminder@test.com", "password123")

	// Register a device and opt in with the reminder slot set to right now,
	// so the job run lands inside the slot window.
	rec := app.request("PUT", "/api/v1/profile/push-token",
		`{"push_token":"ExponentPushToken[reminder]"}`, accessToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("push token update failed: %d %s", rec.Code, rec.Body.String())
	}

	now := time.Now().UTC()
	slot := now.Hour()*60 + now.Minute()
	body := fmt.Sprintf(`{
		"daily_budget": 5000,
		"notifications_enabled": true,
		"daily_reminder_enabled": true,
		"daily_reminder_minutes": %d
	}`, slot)
	rec = app.request("PUT", "/api/v1/preferences", body, accessToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("preferences update failed: %d %s", rec.Code, rec.Body.String())
	}

	// Spend into the warning band
	rec = app.request("POST", "/api/v1/expenses",
		fmt.Sprintf(`{"amount":4250,"description":"Dinner","date":%q}`, now.Format(time.RFC3339)), accessToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create expense failed: %d %s", rec.Code, rec.Body.String())
	}

	// Trigger the job with the API key
	rec = app.requestWithHeader("POST", "/api/v1/jobs/notifications/run", "", "X-API-Key", testJobAPIKey)
	if rec.Code != http.StatusOK {
		t.Fatalf("job run failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["scanned"].(float64) != 1 {
		t.Errorf("expected 1 user scanned, got %v", result["scanned"])
	}
	if result["sent"].(float64) != 1 {
		t.Errorf("expected 1 reminder sent, got %v", result["sent"])
	}
	if len(app.Sender.sent) != 1 {
		t.Fatalf("expected 1 push recorded, got %d", len(app.Sender.sent))
	}
	msg := app.Sender.sent[0]
	if msg.Data["type"] != "budget_reminder" || msg.Data["period"] != "daily" {
		t.Errorf("unexpected payload %v", msg.Data)
	}

	// Without the API key the job endpoint is closed
	rec = app.requestWithHeader("POST", "/api/v1/jobs/notifications/run", "", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", rec.Code)
	}
}
