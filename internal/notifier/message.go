package notifier

import (
	"fmt"

	"spendly/internal/budget"
)

var periodNouns = map[budget.Period]string{
	budget.PeriodDaily:   "daily",
	budget.PeriodWeekly:  "weekly",
	budget.PeriodMonthly: "monthly",
}

var periodWindows = map[budget.Period]string{
	budget.PeriodDaily:   "today",
	budget.PeriodWeekly:  "this week",
	budget.PeriodMonthly: "this month",
}

// renderMessage builds the notification title and body for a budget status.
func renderMessage(p budget.Progress) (title, body string) {
	noun := periodNouns[p.Period]
	window := periodWindows[p.Period]

	switch p.Status {
	case budget.StatusExceeded:
		title = fmt.Sprintf("%s budget exceeded", capitalize(noun))
		body = fmt.Sprintf("You've spent %s of your %s %s budget (%.0f%%).",
			formatCents(p.Spent), formatCents(p.Budget), noun, p.Percentage)
	case budget.StatusWarning:
		title = fmt.Sprintf("Approaching your %s budget", noun)
		body = fmt.Sprintf("You've spent %s %s — %s left of your %s budget.",
			formatCents(p.Spent), window, formatCents(p.Remaining), formatCents(p.Budget))
	default:
		title = fmt.Sprintf("%s spending update", capitalize(noun))
		body = fmt.Sprintf("You've spent %s %s. %s left of your %s budget.",
			formatCents(p.Spent), window, formatCents(p.Remaining), formatCents(p.Budget))
	}
	return title, body
}

// formatCents renders a cent amount as a dollar string, e.g. 4250 -> "$42.50".
func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
