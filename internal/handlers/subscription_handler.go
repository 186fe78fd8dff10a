package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "spendly/internal/errors"
	"spendly/internal/logger"
	"spendly/internal/models"
	"spendly/internal/services"
)

// SubscriptionHandler serves entitlement state and the payment provider
// webhook that maintains it.
type SubscriptionHandler struct {
	subscriptionService services.SubscriptionServicer
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(subscriptionService services.SubscriptionServicer) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// WebhookRequest is the normalized subscription event posted by the payment
// provider integration.
type WebhookRequest struct {
	Type                   string     `json:"type" binding:"required"`
	Provider               string     `json:"provider" binding:"required,oneof=stripe app_store play_store"`
	ProviderSubscriptionID string     `json:"provider_subscription_id" binding:"required"`
	UserID                 uint       `json:"user_id" binding:"required"`
	Plan                   string     `json:"plan" binding:"required,oneof=free premium_monthly premium_yearly"`
	Status                 string     `json:"status" binding:"required,oneof=active trialing past_due canceled expired"`
	PeriodStart            *time.Time `json:"period_start"`
	PeriodEnd              *time.Time `json:"period_end"`
}

// GetSubscription returns the user's entitlement
// @Summary     Get subscription
// @Description Get the authenticated user's subscription. Users without a subscription row are on the free plan.
// @Tags        subscription
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.Subscription "Subscription state"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /subscription [get]
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	sub, err := h.subscriptionService.GetSubscription(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subscription": sub,
		"is_premium":   sub.IsPremium(time.Now()),
	})
}

// HandleWebhook upserts the subscription row from a provider event
// @Summary     Subscription webhook
// @Description Apply a normalized subscription event from the payment provider. Authenticated by the X-Webhook-Secret header.
// @Tags        webhooks
// @Accept      json
// @Produce     json
// @Param       X-Webhook-Secret header string         true "Shared webhook secret"
// @Param       request          body   WebhookRequest true "Subscription event"
// @Success     200 {object} models.Subscription "Updated subscription"
// @Failure     400 {object} ErrorResponse "Invalid payload"
// @Failure     401 {object} ErrorResponse "Invalid webhook secret"
// @Failure     404 {object} ErrorResponse "Unknown user"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /webhooks/subscription [post]
func (h *SubscriptionHandler) HandleWebhook(c *gin.Context) {
	var req WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidWebhook, err.Error()))
		return
	}

	sub, err := h.subscriptionService.ApplyWebhookEvent(services.WebhookEvent{
		Type:                   req.Type,
		Provider:               models.SubscriptionProvider(req.Provider),
		ProviderSubscriptionID: req.ProviderSubscriptionID,
		UserID:                 req.UserID,
		Plan:                   models.SubscriptionPlan(req.Plan),
		Status:                 models.SubscriptionStatus(req.Status),
		PeriodStart:            req.PeriodStart,
		PeriodEnd:              req.PeriodEnd,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Get().Infow("subscription webhook applied",
		"type", req.Type,
		"user_id", req.UserID,
		"plan", req.Plan,
		"status", req.Status,
	)

	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}
