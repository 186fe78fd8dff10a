package services

import (
	"time"

	"gorm.io/gorm"

	"spendly/internal/budget"
	apperrors "spendly/internal/errors"
	"spendly/internal/logger"
)

// budgetService computes spend-vs-budget progress from preferences and
// recorded expenses.
type budgetService struct {
	db       *gorm.DB
	prefs    PreferencesServicer
	expenses ExpenseServicer
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, prefs PreferencesServicer, expenses ExpenseServicer) BudgetServicer {
	return &budgetService{db: db, prefs: prefs, expenses: expenses}
}

// threshold returns the configured budget cents for a period (0 = unset).
func threshold(p budget.Period, daily, weekly, monthly int64) int64 {
	switch p {
	case budget.PeriodDaily:
		return daily
	case budget.PeriodWeekly:
		return weekly
	case budget.PeriodMonthly:
		return monthly
	}
	return 0
}

// GetProgress computes the user's spend against the configured budget for a
// single period. The window is evaluated in the user's stored timezone so
// "today" follows the user's wall clock, not the server's.
func (s *budgetService) GetProgress(userID uint, period budget.Period, now time.Time) (*budget.Progress, error) {
	prefs, err := s.prefs.GetPreferences(userID)
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(prefs.Timezone)
	if err != nil {
		logger.Get().Warnw("invalid stored timezone, falling back to UTC",
			"user_id", userID, "timezone", prefs.Timezone)
		loc = time.UTC
	}

	start, end := budget.Window(period, now.In(loc))
	spent, err := s.expenses.SumInWindow(userID, start, end)
	if err != nil {
		return nil, err
	}

	budgetCents := threshold(period, prefs.DailyBudget, prefs.WeeklyBudget, prefs.MonthlyBudget)
	progress := budget.Evaluate(period, budgetCents, spent)
	return &progress, nil
}

// GetAllProgress computes progress for all three periods.
func (s *budgetService) GetAllProgress(userID uint, now time.Time) (map[budget.Period]budget.Progress, error) {
	result := make(map[budget.Period]budget.Progress, 3)
	for _, period := range []budget.Period{budget.PeriodDaily, budget.PeriodWeekly, budget.PeriodMonthly} {
		p, err := s.GetProgress(userID, period, now)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		result[period] = *p
	}
	return result, nil
}
