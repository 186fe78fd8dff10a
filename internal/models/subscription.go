package models

import "time"

// SubscriptionPlan identifies the purchased plan.
type SubscriptionPlan string

const (
	PlanFree           SubscriptionPlan = "free"
	PlanPremiumMonthly SubscriptionPlan = "premium_monthly"
	PlanPremiumYearly  SubscriptionPlan = "premium_yearly"
)

// SubscriptionStatus mirrors the payment provider's subscription state.
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusTrialing SubscriptionStatus = "trialing"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
	SubscriptionStatusExpired  SubscriptionStatus = "expired"
)

// SubscriptionProvider identifies where the subscription was purchased.
type SubscriptionProvider string

const (
	ProviderStripe    SubscriptionProvider = "stripe"
	ProviderAppStore  SubscriptionProvider = "app_store"
	ProviderPlayStore SubscriptionProvider = "play_store"
)

// Subscription is the user's entitlement record, sourced from payment
// provider webhooks. The app never mutates it directly.
type Subscription struct {
	Base
	UserID                 uint                 `gorm:"not null;uniqueIndex" json:"user_id"`
	Plan                   SubscriptionPlan     `gorm:"not null;default:free" json:"plan"`
	Status                 SubscriptionStatus   `gorm:"not null" json:"status"`
	Provider               SubscriptionProvider `gorm:"not null" json:"provider"`
	ProviderSubscriptionID string               `gorm:"index" json:"provider_subscription_id"`
	CurrentPeriodStart     *time.Time           `json:"current_period_start,omitempty"`
	CurrentPeriodEnd       *time.Time           `json:"current_period_end,omitempty"`
}

// IsPremium reports whether the subscription currently grants the premium
// capture entitlement. A nil period end means no expiry is enforced.
func (s *Subscription) IsPremium(now time.Time) bool {
	if s == nil {
		return false
	}
	if s.Status != SubscriptionStatusActive && s.Status != SubscriptionStatusTrialing {
		return false
	}
	if s.CurrentPeriodEnd != nil && now.After(*s.CurrentPeriodEnd) {
		return false
	}
	return s.Plan == PlanPremiumMonthly || s.Plan == PlanPremiumYearly
}
