// File: internal/services/billing/interface.go
package billing

import (
	"context"
	"time"
)

// CheckoutSession is the provider's view of one hosted payment flow.
type CheckoutSession struct {
	ID                string
	URL               string
	Status            string // "open", "complete" or "expired"
	PaymentStatus     string // "paid", "unpaid" or "no_payment_required"
	ClientReferenceID string // our user id, echoed back by the provider
	SubscriptionID    string
}

// Subscription is the provider's view of a recurring subscription.
type Subscription struct {
	ID               string
	Status           string
	CurrentPeriodEnd time.Time
}

// ProviderStatus represents the health status of the billing provider.
type ProviderStatus struct {
	IsHealthy bool
	Message   string
}

// Provider abstracts the billing provider's hosted-checkout API.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, userID uint, priceID string) (*CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error)
	HealthCheck(ctx context.Context) error
}

// Checkout session lifecycle values reported by the provider.
const (
	SessionStatusComplete = "complete"
	PaymentStatusPaid     = "paid"
)
