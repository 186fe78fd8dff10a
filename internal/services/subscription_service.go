package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "spendly/internal/errors"
	"spendly/internal/logger"
	"spendly/internal/models"
)

// subscriptionService handles entitlement reads and webhook-driven updates.
type subscriptionService struct {
	db *gorm.DB
}

// NewSubscriptionService creates a new SubscriptionServicer.
func NewSubscriptionService(db *gorm.DB) SubscriptionServicer {
	return &subscriptionService{db: db}
}

// GetSubscription returns the user's subscription row, or a synthesized
// free-plan record when none exists.
func (s *subscriptionService) GetSubscription(userID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.Where("user_id = ?", userID).First(&sub).Error
	if err == nil {
		return &sub, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// No provider record yet: the user is on the free plan.
	return &models.Subscription{
		UserID: userID,
		Plan:   models.PlanFree,
		Status: models.SubscriptionStatusExpired,
	}, nil
}

// IsPremium reports whether the user currently has premium entitlement.
func (s *subscriptionService) IsPremium(userID uint, now time.Time) (bool, error) {
	sub, err := s.GetSubscription(userID)
	if err != nil {
		return false, err
	}
	return sub.IsPremium(now), nil
}

// ApplyWebhookEvent upserts the subscription record from a normalized
// payment provider event. The webhook is the only writer of this table.
func (s *subscriptionService) ApplyWebhookEvent(event WebhookEvent) (*models.Subscription, error) {
	if event.UserID == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidWebhook, "user_id is required")
	}
	if event.Provider == "" || event.Status == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidWebhook, "provider and status are required")
	}

	// The referenced user must exist.
	var count int64
	if err := s.db.Model(&models.User{}).Where("id = ?", event.UserID).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return nil, apperrors.ErrUserNotFound
	}

	var sub models.Subscription
	err := s.db.Where("user_id = ?", event.UserID).First(&sub).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		sub = models.Subscription{
			UserID:                 event.UserID,
			Plan:                   event.Plan,
			Status:                 event.Status,
			Provider:               event.Provider,
			ProviderSubscriptionID: event.ProviderSubscriptionID,
			CurrentPeriodStart:     event.PeriodStart,
			CurrentPeriodEnd:       event.PeriodEnd,
		}
		if err := s.db.Create(&sub).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	case err != nil:
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	default:
		updates := map[string]interface{}{
			"plan":                     event.Plan,
			"status":                   event.Status,
			"provider":                 event.Provider,
			"provider_subscription_id": event.ProviderSubscriptionID,
			"current_period_start":     event.PeriodStart,
			"current_period_end":       event.PeriodEnd,
		}
		if err := s.db.Model(&sub).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	logger.Get().Infow("subscription updated from webhook",
		"user_id", event.UserID,
		"event_type", event.Type,
		"plan", event.Plan,
		"status", event.Status,
	)
	return &sub, nil
}
