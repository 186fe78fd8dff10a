package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"spendly/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestUserWithPushToken creates a user carrying an Expo push token.
func CreateTestUserWithPushToken(t *testing.T, db *gorm.DB, token string) *models.User {
	t.Helper()

	user := CreateTestUser(t, db)
	if err := db.Model(user).Update("push_token", token).Error; err != nil {
		t.Fatalf("failed to set push token: %v", err)
	}
	user.PushToken = &token
	return user
}

// CreateTestCategory creates a category owned by the given user.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID uint) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
		Icon:   "tag",
		Color:  "#4A90D9",
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestExpense creates an expense with the given amount (in cents) dated now.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID uint, amount int64) *models.Expense {
	t.Helper()
	return CreateTestExpenseAt(t, db, userID, amount, time.Now())
}

// CreateTestExpenseAt creates an expense with the given amount and date.
func CreateTestExpenseAt(t *testing.T, db *gorm.DB, userID uint, amount int64, date time.Time) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:      userID,
		Amount:      amount,
		Description: fmt.Sprintf("Test Expense %d", nextID()),
		Date:        date,
		Source:      models.ExpenseSourceManual,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestPreferences creates a preferences row with notifications enabled
// and the given budgets (in cents). Reminder slots default to 20:00.
func CreateTestPreferences(t *testing.T, db *gorm.DB, userID uint, daily, weekly, monthly int64) *models.UserPreferences {
	t.Helper()

	prefs := &models.UserPreferences{
		UserID:                 userID,
		Currency:               "USD",
		Timezone:               "UTC",
		DailyBudget:            daily,
		WeeklyBudget:           weekly,
		MonthlyBudget:          monthly,
		NotificationsEnabled:   true,
		DailyReminderEnabled:   daily > 0,
		WeeklyReminderEnabled:  weekly > 0,
		MonthlyReminderEnabled: monthly > 0,
		DailyReminderMinutes:   1200,
		WeeklyReminderMinutes:  1200,
		MonthlyReminderMinutes: 1200,
	}
	if err := db.Create(prefs).Error; err != nil {
		t.Fatalf("failed to create test preferences: %v", err)
	}
	return prefs
}

// CreateTestSubscription creates a premium subscription valid for 30 days.
func CreateTestSubscription(t *testing.T, db *gorm.DB, userID uint, plan models.SubscriptionPlan, status models.SubscriptionStatus) *models.Subscription {
	t.Helper()

	start := time.Now().Add(-24 * time.Hour)
	end := time.Now().Add(30 * 24 * time.Hour)
	sub := &models.Subscription{
		UserID:                 userID,
		Plan:                   plan,
		Status:                 status,
		Provider:               models.ProviderAppStore,
		ProviderSubscriptionID: fmt.Sprintf("sub_%d", nextID()),
		CurrentPeriodStart:     &start,
		CurrentPeriodEnd:       &end,
	}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("failed to create test subscription: %v", err)
	}
	return sub
}
