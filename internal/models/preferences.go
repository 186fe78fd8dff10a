package models

// UserPreferences holds per-user budget thresholds and notification settings.
// Budgets are stored in cents; zero means the threshold is unset. Reminder
// times are minutes from midnight in the user's local timezone.
type UserPreferences struct {
	Base
	UserID   uint   `gorm:"not null;uniqueIndex" json:"user_id"`
	Currency string `gorm:"size:3;not null;default:USD" json:"currency"`
	Timezone string `gorm:"not null;default:UTC" json:"timezone"`

	DailyBudget   int64 `gorm:"type:bigint;default:0" json:"daily_budget"`
	WeeklyBudget  int64 `gorm:"type:bigint;default:0" json:"weekly_budget"`
	MonthlyBudget int64 `gorm:"type:bigint;default:0" json:"monthly_budget"`

	NotificationsEnabled bool `gorm:"default:false" json:"notifications_enabled"`

	DailyReminderEnabled   bool `gorm:"default:false" json:"daily_reminder_enabled"`
	WeeklyReminderEnabled  bool `gorm:"default:false" json:"weekly_reminder_enabled"`
	MonthlyReminderEnabled bool `gorm:"default:false" json:"monthly_reminder_enabled"`

	DailyReminderMinutes   int `gorm:"default:1200" json:"daily_reminder_minutes"`
	WeeklyReminderMinutes  int `gorm:"default:1200" json:"weekly_reminder_minutes"`
	MonthlyReminderMinutes int `gorm:"default:1200" json:"monthly_reminder_minutes"`
}
