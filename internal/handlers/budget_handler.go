package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"spendly/internal/budget"
	apperrors "spendly/internal/errors"
	"spendly/internal/services"
)

// BudgetHandler serves spend-vs-budget progress.
type BudgetHandler struct {
	budgetService services.BudgetServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// GetProgress returns budget progress for one or all periods
// @Summary     Get budget progress
// @Description Get spend-vs-budget progress. With a period query parameter, returns that period only; otherwise all three periods. Windows are computed in the user's timezone.
// @Tags        budget
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       period query string false "Budget period (daily/weekly/monthly)"
// @Success     200 {object} budget.Progress "Budget progress"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget/progress [get]
func (h *BudgetHandler) GetProgress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	now := time.Now()

	if v := c.Query("period"); v != "" {
		period := budget.Period(v)
		if period != budget.PeriodDaily && period != budget.PeriodWeekly && period != budget.PeriodMonthly {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, "period must be 'daily', 'weekly', or 'monthly'"))
			return
		}

		progress, err := h.budgetService.GetProgress(userID, period, now)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"progress": progress})
		return
	}

	all, err := h.budgetService.GetAllProgress(userID, now)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"progress": all})
}
