package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spendly/internal/errors"
	"spendly/internal/services"
)

// PreferencesHandler handles user preference requests.
type PreferencesHandler struct {
	preferencesService services.PreferencesServicer
	auditService       services.AuditServicer
}

// NewPreferencesHandler creates a new PreferencesHandler.
func NewPreferencesHandler(preferencesService services.PreferencesServicer, auditService services.AuditServicer) *PreferencesHandler {
	return &PreferencesHandler{preferencesService: preferencesService, auditService: auditService}
}

// UpdatePreferencesRequest represents a partial preferences update. Omitted
// fields are left unchanged. Budgets are in cents; zero clears a budget.
// Reminder times are minutes from local midnight.
type UpdatePreferencesRequest struct {
	Currency               *string `json:"currency" binding:"omitempty,iso4217"`
	Timezone               *string `json:"timezone" binding:"omitempty,timezone_name"`
	DailyBudget            *int64  `json:"daily_budget" binding:"omitempty,gte=0"`
	WeeklyBudget           *int64  `json:"weekly_budget" binding:"omitempty,gte=0"`
	MonthlyBudget          *int64  `json:"monthly_budget" binding:"omitempty,gte=0"`
	NotificationsEnabled   *bool   `json:"notifications_enabled"`
	DailyReminderEnabled   *bool   `json:"daily_reminder_enabled"`
	WeeklyReminderEnabled  *bool   `json:"weekly_reminder_enabled"`
	MonthlyReminderEnabled *bool   `json:"monthly_reminder_enabled"`
	DailyReminderMinutes   *int    `json:"daily_reminder_minutes" binding:"omitempty,minutes_of_day"`
	WeeklyReminderMinutes  *int    `json:"weekly_reminder_minutes" binding:"omitempty,minutes_of_day"`
	MonthlyReminderMinutes *int    `json:"monthly_reminder_minutes" binding:"omitempty,minutes_of_day"`
}

// GetPreferences returns the user's preferences
// @Summary     Get preferences
// @Description Get the authenticated user's preferences, creating defaults on first access
// @Tags        preferences
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.UserPreferences "User preferences"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /preferences [get]
func (h *PreferencesHandler) GetPreferences(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	prefs, err := h.preferencesService.GetPreferences(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}

// UpdatePreferences applies a partial update to the user's preferences
// @Summary     Update preferences
// @Description Update currency, timezone, budgets, or notification settings. Omitted fields are unchanged.
// @Tags        preferences
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdatePreferencesRequest true "Fields to update"
// @Success     200 {object} models.UserPreferences "Updated preferences"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /preferences [put]
func (h *PreferencesHandler) UpdatePreferences(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	prefs, err := h.preferencesService.UpdatePreferences(userID, services.PreferencesUpdate{
		Currency:               req.Currency,
		Timezone:               req.Timezone,
		DailyBudget:            req.DailyBudget,
		WeeklyBudget:           req.WeeklyBudget,
		MonthlyBudget:          req.MonthlyBudget,
		NotificationsEnabled:   req.NotificationsEnabled,
		DailyReminderEnabled:   req.DailyReminderEnabled,
		WeeklyReminderEnabled:  req.WeeklyReminderEnabled,
		MonthlyReminderEnabled: req.MonthlyReminderEnabled,
		DailyReminderMinutes:   req.DailyReminderMinutes,
		WeeklyReminderMinutes:  req.WeeklyReminderMinutes,
		MonthlyReminderMinutes: req.MonthlyReminderMinutes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_PREFERENCES", "preferences", prefs.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}
