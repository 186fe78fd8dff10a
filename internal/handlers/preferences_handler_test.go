package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"spendly/internal/models"
	"spendly/internal/services"
)

type mockPreferencesService struct {
	getPreferencesFn    func(userID uint) (*models.UserPreferences, error)
	updatePreferencesFn func(userID uint, update services.PreferencesUpdate) (*models.UserPreferences, error)
}

func (m *mockPreferencesService) GetPreferences(userID uint) (*models.UserPreferences, error) {
	if m.getPreferencesFn != nil {
		return m.getPreferencesFn(userID)
	}
	return &models.UserPreferences{UserID: userID, Currency: "USD", Timezone: "UTC"}, nil
}

func (m *mockPreferencesService) UpdatePreferences(userID uint, update services.PreferencesUpdate) (*models.UserPreferences, error) {
	if m.updatePreferencesFn != nil {
		return m.updatePreferencesFn(userID, update)
	}
	return &models.UserPreferences{UserID: userID}, nil
}

var _ services.PreferencesServicer = (*mockPreferencesService)(nil)

func setupPreferencesRouter(handler *PreferencesHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.GET("/preferences", handler.GetPreferences)
	auth.PUT("/preferences", handler.UpdatePreferences)
	return r
}

func TestPreferencesHandler_GetPreferences(t *testing.T) {
	t.Run("returns defaults on first access", func(t *testing.T) {
		svc := &mockPreferencesService{
			getPreferencesFn: func(userID uint) (*models.UserPreferences, error) {
				return &models.UserPreferences{
					UserID:               userID,
					Currency:             "USD",
					Timezone:             "UTC",
					DailyReminderMinutes: 1200,
				}, nil
			},
		}
		handler := NewPreferencesHandler(svc, &mockAuditService{})
		r := setupPreferencesRouter(handler)

		rec := doRequest(r, "GET", "/preferences", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		prefs := result["preferences"].(map[string]interface{})
		if prefs["currency"] != "USD" {
			t.Errorf("expected USD, got %v", prefs["currency"])
		}
		if prefs["daily_reminder_minutes"].(float64) != 1200 {
			t.Errorf("expected reminder at 1200 minutes, got %v", prefs["daily_reminder_minutes"])
		}
	})
}

func TestPreferencesHandler_UpdatePreferences(t *testing.T) {
	t.Run("passes a partial update through", func(t *testing.T) {
		var gotUpdate services.PreferencesUpdate
		svc := &mockPreferencesService{
			updatePreferencesFn: func(userID uint, update services.PreferencesUpdate) (*models.UserPreferences, error) {
				gotUpdate = update
				return &models.UserPreferences{UserID: userID}, nil
			},
		}
		handler := NewPreferencesHandler(svc, &mockAuditService{})
		r := setupPreferencesRouter(handler)

		rec := doRequest(r, "PUT", "/preferences",
			`{"timezone":"America/New_York","daily_budget":5000,"notifications_enabled":true}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotUpdate.Timezone == nil || *gotUpdate.Timezone != "America/New_York" {
			t.Errorf("expected timezone update, got %v", gotUpdate.Timezone)
		}
		if gotUpdate.DailyBudget == nil || *gotUpdate.DailyBudget != 5000 {
			t.Errorf("expected daily budget 5000, got %v", gotUpdate.DailyBudget)
		}
		if gotUpdate.NotificationsEnabled == nil || !*gotUpdate.NotificationsEnabled {
			t.Errorf("expected notifications enabled, got %v", gotUpdate.NotificationsEnabled)
		}
		if gotUpdate.Currency != nil {
			t.Errorf("expected currency untouched, got %v", *gotUpdate.Currency)
		}
	})

	t.Run("returns 400 on unknown timezone", func(t *testing.T) {
		handler := NewPreferencesHandler(&mockPreferencesService{}, &mockAuditService{})
		r := setupPreferencesRouter(handler)

		rec := doRequest(r, "PUT", "/preferences", `{"timezone":"Mars/Olympus_Mons"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "VALIDATION_ERROR")
	})

	t.Run("returns 400 on unsupported currency", func(t *testing.T) {
		handler := NewPreferencesHandler(&mockPreferencesService{}, &mockAuditService{})
		r := setupPreferencesRouter(handler)

		rec := doRequest(r, "PUT", "/preferences", `{"currency":"XYZ"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on out-of-range reminder minutes", func(t *testing.T) {
		handler := NewPreferencesHandler(&mockPreferencesService{}, &mockAuditService{})
		r := setupPreferencesRouter(handler)

		rec := doRequest(r, "PUT", "/preferences", `{"daily_reminder_minutes":1440}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on negative budget", func(t *testing.T) {
		handler := NewPreferencesHandler(&mockPreferencesService{}, &mockAuditService{})
		r := setupPreferencesRouter(handler)

		rec := doRequest(r, "PUT", "/preferences", `{"weekly_budget":-100}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
