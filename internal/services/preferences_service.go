package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "spendly/internal/errors"
	"spendly/internal/models"
)

// preferencesService handles user preference reads and updates.
type preferencesService struct {
	db *gorm.DB
}

// NewPreferencesService creates a new PreferencesServicer.
func NewPreferencesService(db *gorm.DB) PreferencesServicer {
	return &preferencesService{db: db}
}

// GetPreferences returns the user's preferences, creating the default row
// on first access.
func (s *preferencesService) GetPreferences(userID uint) (*models.UserPreferences, error) {
	var prefs models.UserPreferences
	err := s.db.Where("user_id = ?", userID).First(&prefs).Error
	if err == nil {
		return &prefs, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	prefs = models.UserPreferences{
		UserID:                 userID,
		Currency:               "USD",
		Timezone:               "UTC",
		DailyReminderMinutes:   1200,
		WeeklyReminderMinutes:  1200,
		MonthlyReminderMinutes: 1200,
	}
	if err := s.db.Create(&prefs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &prefs, nil
}

// UpdatePreferences applies a partial update. Nil fields are left unchanged.
func (s *preferencesService) UpdatePreferences(userID uint, update PreferencesUpdate) (*models.UserPreferences, error) {
	prefs, err := s.GetPreferences(userID)
	if err != nil {
		return nil, err
	}

	if update.Timezone != nil {
		if _, err := time.LoadLocation(*update.Timezone); err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrValidation, "invalid timezone")
		}
	}
	for _, m := range []*int{update.DailyReminderMinutes, update.WeeklyReminderMinutes, update.MonthlyReminderMinutes} {
		if m != nil && (*m < 0 || *m > 1439) {
			return nil, apperrors.WithMessage(apperrors.ErrValidation, "reminder time must be between 0 and 1439 minutes")
		}
	}
	for _, b := range []*int64{update.DailyBudget, update.WeeklyBudget, update.MonthlyBudget} {
		if b != nil && *b < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrValidation, "budgets cannot be negative")
		}
	}

	updates := make(map[string]interface{})
	if update.Currency != nil {
		updates["currency"] = *update.Currency
	}
	if update.Timezone != nil {
		updates["timezone"] = *update.Timezone
	}
	if update.DailyBudget != nil {
		updates["daily_budget"] = *update.DailyBudget
	}
	if update.WeeklyBudget != nil {
		updates["weekly_budget"] = *update.WeeklyBudget
	}
	if update.MonthlyBudget != nil {
		updates["monthly_budget"] = *update.MonthlyBudget
	}
	if update.NotificationsEnabled != nil {
		updates["notifications_enabled"] = *update.NotificationsEnabled
	}
	if update.DailyReminderEnabled != nil {
		updates["daily_reminder_enabled"] = *update.DailyReminderEnabled
	}
	if update.WeeklyReminderEnabled != nil {
		updates["weekly_reminder_enabled"] = *update.WeeklyReminderEnabled
	}
	if update.MonthlyReminderEnabled != nil {
		updates["monthly_reminder_enabled"] = *update.MonthlyReminderEnabled
	}
	if update.DailyReminderMinutes != nil {
		updates["daily_reminder_minutes"] = *update.DailyReminderMinutes
	}
	if update.WeeklyReminderMinutes != nil {
		updates["weekly_reminder_minutes"] = *update.WeeklyReminderMinutes
	}
	if update.MonthlyReminderMinutes != nil {
		updates["monthly_reminder_minutes"] = *update.MonthlyReminderMinutes
	}

	if len(updates) > 0 {
		if err := s.db.Model(prefs).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return prefs, nil
}
