// File: internal/domain/subscriber.go
package domain

import "time"

// Subscription tiers.
const (
	TierFree    = "free"
	TierPremium = "premium"
)

// Subscriber mirrors the billing provider's view of one user. Only the
// billing reconciliation path writes this row; the chat path reads it.
type Subscriber struct {
	UserID            uint       `json:"user_id" gorm:"primarykey"`
	Subscribed        bool       `json:"subscribed"`
	SubscriptionTier  string     `json:"subscription_tier"`
	SubscriptionEnd   *time.Time `json:"subscription_end,omitempty"`
	CheckoutSessionID string     `json:"-"` // Last hosted checkout session started for this user
	UpdatedAt         time.Time  `json:"updated_at"`
}

// IsActive reports whether the subscription grants premium access right now.
func (s *Subscriber) IsActive(now time.Time) bool {
	if s == nil || !s.Subscribed {
		return false
	}
	if s.SubscriptionEnd != nil && s.SubscriptionEnd.Before(now) {
		return false
	}
	return true
}
