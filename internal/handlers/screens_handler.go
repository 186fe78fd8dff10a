package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"spendly/internal/budget"
	apperrors "spendly/internal/errors"
	"spendly/internal/models"
	"spendly/internal/pagination"
	"spendly/internal/services"
)

// ScreensHandler serves the aggregated payloads behind the mobile app's main
// screens, so the client renders each screen from a single round trip.
type ScreensHandler struct {
	expenseService  services.ExpenseServicer
	budgetService   services.BudgetServicer
	categoryService services.CategoryServicer
}

// NewScreensHandler creates a new ScreensHandler.
func NewScreensHandler(expenseService services.ExpenseServicer, budgetService services.BudgetServicer, categoryService services.CategoryServicer) *ScreensHandler {
	return &ScreensHandler{
		expenseService:  expenseService,
		budgetService:   budgetService,
		categoryService: categoryService,
	}
}

const recentExpenseCount = 5

// Dashboard returns the home screen payload
// @Summary     Dashboard screen
// @Description Budget progress for all periods plus the most recent expenses
// @Tags        screens
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Dashboard payload"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /screens/dashboard [get]
func (h *ScreensHandler) Dashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	now := time.Now()

	var (
		progress map[budget.Period]budget.Progress
		recent   []models.Expense
	)

	g, _ := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		progress, err = h.budgetService.GetAllProgress(userID, now)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = h.expenseService.RecentExpenses(userID, recentExpenseCount)
		return err
	})
	if err := g.Wait(); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"progress":        progress,
		"recent_expenses": recent,
	})
}

// Expenses returns the expense list screen payload
// @Summary     Expenses screen
// @Description Paginated, filtered expense list plus the total for the filtered date range
// @Tags        screens
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       from_date   query string false "Only expenses on or after this RFC 3339 timestamp"
// @Param       to_date     query string false "Only expenses before this RFC 3339 timestamp"
// @Param       category_id query int    false "Filter by category"
// @Param       search      query string false "Search in description and notes"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} map[string]interface{} "Expense list payload"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /screens/expenses [get]
func (h *ScreensHandler) Expenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	filter, err := parseExpenseFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	// Period total defaults to the current month when no range is given.
	start, end := budget.Window(budget.PeriodMonthly, time.Now())
	if filter.FromDate != nil {
		start = *filter.FromDate
	}
	if filter.ToDate != nil {
		end = *filter.ToDate
	}

	var (
		expenses *pagination.PageResponse[models.Expense]
		total    int64
	)

	g, _ := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		expenses, err = h.expenseService.GetUserExpenses(userID, page, filter)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = h.expenseService.SumInWindow(userID, start, end)
		return err
	})
	if err := g.Wait(); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"expenses":     expenses,
		"period_total": total,
	})
}

const trendMonths = 6

// Analytics returns the analytics screen payload
// @Summary     Analytics screen
// @Description Per-category totals for the current month plus a six-month spending trend
// @Tags        screens
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Analytics payload"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /screens/analytics [get]
func (h *ScreensHandler) Analytics(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	now := time.Now()
	monthStart, monthEnd := budget.Window(budget.PeriodMonthly, now)

	var (
		byCategory []services.CategoryTotal
		trend      []services.MonthTotal
	)

	g, _ := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		byCategory, err = h.expenseService.CategoryTotals(userID, monthStart, monthEnd)
		return err
	})
	g.Go(func() error {
		var err error
		trend, err = h.expenseService.MonthlyTotals(userID, trendMonths, now)
		return err
	})
	if err := g.Wait(); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category_totals": byCategory,
		"monthly_trend":   trend,
	})
}
