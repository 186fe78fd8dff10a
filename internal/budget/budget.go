// Package budget implements period window and spend-vs-budget calculations.
// All amounts are in cents. Windows are computed in the caller's location so
// "today" means the user's local calendar day, not the server's.
package budget

import "time"

// Period is a budget period type.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// Status classifies spend against a budget threshold.
type Status string

const (
	StatusSafe     Status = "safe"
	StatusWarning  Status = "warning"
	StatusExceeded Status = "exceeded"
)

// Progress contains spending vs budget data for a single period.
type Progress struct {
	Period     Period  `json:"period"`
	Budget     int64   `json:"budget"`
	Spent      int64   `json:"spent"`
	Remaining  int64   `json:"remaining"`
	Percentage float64 `json:"percentage"`
	Status     Status  `json:"status"`
}

// Window returns the half-open interval [start, end) of the period containing
// now, in now's location.
//
// Daily covers the local calendar day. Weekly starts at the most recent
// Sunday 00:00 (inclusive) and runs through the end of today. Monthly covers
// the whole local calendar month.
func Window(period Period, now time.Time) (start, end time.Time) {
	loc := now.Location()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	switch period {
	case PeriodDaily:
		return dayStart, dayStart.AddDate(0, 0, 1)
	case PeriodWeekly:
		daysSinceSunday := int(now.Weekday())
		weekStart := dayStart.AddDate(0, 0, -daysSinceSunday)
		return weekStart, dayStart.AddDate(0, 0, 1)
	case PeriodMonthly:
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return monthStart, monthStart.AddDate(0, 1, 0)
	}
	return dayStart, dayStart.AddDate(0, 0, 1)
}

// Evaluate classifies spent cents against a budget threshold.
// Status is exceeded iff spent >= budget, warning iff spent >= 80% of
// budget, otherwise safe. A zero or negative budget always evaluates safe
// with a zero percentage; callers treat it as "no budget configured".
func Evaluate(period Period, budgetCents, spentCents int64) Progress {
	p := Progress{
		Period:    period,
		Budget:    budgetCents,
		Spent:     spentCents,
		Remaining: budgetCents - spentCents,
		Status:    StatusSafe,
	}
	if budgetCents <= 0 {
		p.Remaining = 0
		return p
	}

	p.Percentage = float64(spentCents) / float64(budgetCents) * 100

	switch {
	case spentCents >= budgetCents:
		p.Status = StatusExceeded
	case spentCents*10 >= budgetCents*8: // integer 80% threshold
		p.Status = StatusWarning
	}
	return p
}
