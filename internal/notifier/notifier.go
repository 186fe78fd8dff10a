// Package notifier implements the periodic budget notification job. Every
// tick it scans for users with notifications enabled and a registered push
// token, checks which reminder slots match each user's local wall clock,
// computes spend-vs-budget for the due periods, and dispatches one push per
// user per period. Users are processed sequentially; one user's failure
// never aborts the batch.
package notifier

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"spendly/internal/budget"
	"spendly/internal/logger"
	"spendly/internal/models"
	"spendly/internal/push"
	"spendly/internal/services"
)

const minutesPerDay = 24 * 60

// DispatchError records a failed evaluation or push for one user/period.
type DispatchError struct {
	UserID uint
	Period budget.Period
	Err    error
}

// Error implements the error interface.
func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch failed for user %d (%s): %v", e.UserID, e.Period, e.Err)
}

// Result contains the outcome of a single notifier run.
type Result struct {
	Scanned  int
	Sent     int
	Skipped  int
	Errors   []DispatchError
	Duration time.Duration
}

// Notifier evaluates budget reminders and dispatches them via the push provider.
type Notifier struct {
	db       *gorm.DB
	expenses services.ExpenseServicer
	sender   push.Sender
	tick     time.Duration
}

// New creates a Notifier. tick is the scheduling interval; reminder slots
// match when the user's local wall clock falls within [slot, slot+tick).
func New(db *gorm.DB, expenses services.ExpenseServicer, sender push.Sender, tick time.Duration) *Notifier {
	if tick <= 0 {
		tick = 15 * time.Minute
	}
	return &Notifier{db: db, expenses: expenses, sender: sender, tick: tick}
}

// Run executes one notification pass for the given wall-clock time.
// It returns an error only when the candidate query itself fails; per-user
// failures are collected in the result.
func (n *Notifier) Run(ctx context.Context, now time.Time) (*Result, error) {
	start := time.Now()
	result := &Result{}
	log := logger.Get()

	var users []models.User
	err := n.db.
		Joins("JOIN user_preferences ON user_preferences.user_id = users.id AND user_preferences.deleted_at IS NULL").
		Where("user_preferences.notifications_enabled = ? AND users.push_token IS NOT NULL", true).
		Preload("Preferences").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("querying notification candidates: %w", err)
	}
	result.Scanned = len(users)

	for i := range users {
		if ctx.Err() != nil {
			result.Duration = time.Since(start)
			return result, ctx.Err()
		}
		user := &users[i]
		if user.Preferences == nil || user.PushToken == nil || *user.PushToken == "" {
			continue
		}
		n.processUser(ctx, user, now, result)
	}

	result.Duration = time.Since(start)
	log.Infow("notifier run completed",
		"scanned", result.Scanned,
		"sent", result.Sent,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
		"duration", result.Duration.String(),
	)
	return result, nil
}

// processUser evaluates all due periods for one user and dispatches pushes.
func (n *Notifier) processUser(ctx context.Context, user *models.User, now time.Time, result *Result) {
	prefs := user.Preferences

	loc, err := time.LoadLocation(prefs.Timezone)
	if err != nil {
		result.Errors = append(result.Errors, DispatchError{
			UserID: user.ID,
			Err:    fmt.Errorf("invalid timezone %q: %w", prefs.Timezone, err),
		})
		return
	}
	local := now.In(loc)

	for _, period := range n.duePeriods(prefs, local) {
		budgetCents := budgetFor(period, prefs)
		if budgetCents <= 0 {
			result.Skipped++
			continue
		}

		windowStart, windowEnd := budget.Window(period, local)
		spent, err := n.expenses.SumInWindow(user.ID, windowStart, windowEnd)
		if err != nil {
			result.Errors = append(result.Errors, DispatchError{UserID: user.ID, Period: period, Err: err})
			continue
		}

		progress := budget.Evaluate(period, budgetCents, spent)
		title, body := renderMessage(progress)

		msg := push.Message{
			To:    *user.PushToken,
			Title: title,
			Body:  body,
			Data: map[string]string{
				"type":   "budget_reminder",
				"period": string(period),
				"status": string(progress.Status),
			},
		}
		if err := n.sender.Send(ctx, msg); err != nil {
			result.Errors = append(result.Errors, DispatchError{UserID: user.ID, Period: period, Err: err})
			continue
		}
		result.Sent++
	}
}

// duePeriods returns the periods whose reminder slot matches the user's
// local wall clock. Weekly reminders fire on Sunday; monthly reminders fire
// on the last day of the local month.
func (n *Notifier) duePeriods(prefs *models.UserPreferences, local time.Time) []budget.Period {
	localMinutes := local.Hour()*60 + local.Minute()
	var due []budget.Period

	if prefs.DailyReminderEnabled && n.slotMatches(localMinutes, prefs.DailyReminderMinutes) {
		due = append(due, budget.PeriodDaily)
	}
	if prefs.WeeklyReminderEnabled && local.Weekday() == time.Sunday &&
		n.slotMatches(localMinutes, prefs.WeeklyReminderMinutes) {
		due = append(due, budget.PeriodWeekly)
	}
	if prefs.MonthlyReminderEnabled && isLastDayOfMonth(local) &&
		n.slotMatches(localMinutes, prefs.MonthlyReminderMinutes) {
		due = append(due, budget.PeriodMonthly)
	}
	return due
}

// slotMatches reports whether localMinutes falls within [slot, slot+tick),
// wrapping at midnight.
func (n *Notifier) slotMatches(localMinutes, slot int) bool {
	tickMinutes := int(n.tick.Minutes())
	if tickMinutes < 1 {
		tickMinutes = 1
	}
	diff := (localMinutes - slot + minutesPerDay) % minutesPerDay
	return diff < tickMinutes
}

func isLastDayOfMonth(t time.Time) bool {
	return t.AddDate(0, 0, 1).Day() == 1
}

func budgetFor(period budget.Period, prefs *models.UserPreferences) int64 {
	switch period {
	case budget.PeriodDaily:
		return prefs.DailyBudget
	case budget.PeriodWeekly:
		return prefs.WeeklyBudget
	case budget.PeriodMonthly:
		return prefs.MonthlyBudget
	}
	return 0
}
