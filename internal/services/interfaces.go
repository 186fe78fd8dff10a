package services

import (
	"context"
	"time"

	"spendly/internal/budget"
	"spendly/internal/models"
	"spendly/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
	UpdatePushToken(userID uint, token *string) error
	CreatePasswordReset(email string) (string, error)
	ResetPassword(email, code, newPassword string) error
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID uint, name, icon, color string) (*models.Category, error)
	SeedDefaultCategories(userID uint) error
	GetUserCategories(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID uint) (*models.Category, error)
	UpdateCategory(userID, categoryID uint, name, icon, color string) (*models.Category, error)
	DeleteCategory(userID, categoryID uint) error
}

// ExpenseFilter holds optional filter parameters for listing expenses.
type ExpenseFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	CategoryID *uint
	MinAmount  *int64
	MaxAmount  *int64
	Search     string
	Source     *models.ExpenseSource
}

// CategoryTotal is an aggregated spend amount for one category.
type CategoryTotal struct {
	CategoryID   *uint  `json:"category_id"`
	CategoryName string `json:"category_name"`
	Total        int64  `json:"total"`
	Count        int64  `json:"count"`
}

// MonthTotal is an aggregated spend amount for one calendar month.
type MonthTotal struct {
	Month string `json:"month"` // YYYY-MM
	Total int64  `json:"total"`
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(userID uint, categoryID *uint, amount int64, description string, date time.Time, notes, receiptURL string, source models.ExpenseSource) (*models.Expense, error)
	GetUserExpenses(userID uint, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(userID, expenseID uint) (*models.Expense, error)
	UpdateExpense(userID, expenseID uint, categoryID *uint, amount *int64, description string, date *time.Time, notes *string) (*models.Expense, error)
	DeleteExpense(userID, expenseID uint) error
	SumInWindow(userID uint, start, end time.Time) (int64, error)
	RecentExpenses(userID uint, limit int) ([]models.Expense, error)
	CategoryTotals(userID uint, start, end time.Time) ([]CategoryTotal, error)
	MonthlyTotals(userID uint, months int, now time.Time) ([]MonthTotal, error)
}

// PreferencesUpdate holds optional fields for a partial preferences update.
type PreferencesUpdate struct {
	Currency               *string
	Timezone               *string
	DailyBudget            *int64
	WeeklyBudget           *int64
	MonthlyBudget          *int64
	NotificationsEnabled   *bool
	DailyReminderEnabled   *bool
	WeeklyReminderEnabled  *bool
	MonthlyReminderEnabled *bool
	DailyReminderMinutes   *int
	WeeklyReminderMinutes  *int
	MonthlyReminderMinutes *int
}

// PreferencesServicer defines the contract for user preferences.
type PreferencesServicer interface {
	GetPreferences(userID uint) (*models.UserPreferences, error)
	UpdatePreferences(userID uint, update PreferencesUpdate) (*models.UserPreferences, error)
}

// BudgetServicer computes spend-vs-budget progress from the user's
// configured thresholds and recorded expenses.
type BudgetServicer interface {
	GetProgress(userID uint, period budget.Period, now time.Time) (*budget.Progress, error)
	GetAllProgress(userID uint, now time.Time) (map[budget.Period]budget.Progress, error)
}

// WebhookEvent is a normalized subscription event from a payment provider.
type WebhookEvent struct {
	Type                   string                      `json:"type"`
	Provider               models.SubscriptionProvider `json:"provider"`
	ProviderSubscriptionID string                      `json:"provider_subscription_id"`
	UserID                 uint                        `json:"user_id"`
	Plan                   models.SubscriptionPlan     `json:"plan"`
	Status                 models.SubscriptionStatus   `json:"status"`
	PeriodStart            *time.Time                  `json:"period_start"`
	PeriodEnd              *time.Time                  `json:"period_end"`
}

// SubscriptionServicer defines the contract for subscription entitlement.
type SubscriptionServicer interface {
	GetSubscription(userID uint) (*models.Subscription, error)
	IsPremium(userID uint, now time.Time) (bool, error)
	ApplyWebhookEvent(event WebhookEvent) (*models.Subscription, error)
}

// NotificationServicer sends push notifications to a single user on demand.
type NotificationServicer interface {
	SendTestNotification(ctx context.Context, userID uint) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
