// File: internal/services/billing_service.go
package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/shadowai/shadowai/internal/domain"
	"github.com/shadowai/shadowai/internal/repository/subscriber"
	"github.com/shadowai/shadowai/internal/services/billing"
)

// CheckoutStart is returned to the browser so it can redirect to the
// provider's hosted payment page.
type CheckoutStart struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

// ReconcileResult reports what reconciliation decided for one session.
type ReconcileResult struct {
	Activated  bool               `json:"activated"`
	Subscriber *domain.Subscriber `json:"subscriber"`
}

// BillingService bridges hosted checkout to local subscription state. The
// provider is the source of truth: local rows only change after the provider
// confirms a session is complete and paid.
type BillingService struct {
	config         *billing.Config
	provider       billing.Provider
	subscriberRepo subscriber.SubscriberRepository
	retryConfig    *billing.RetryConfig
	logger         Logger
}

func NewBillingService(config *billing.Config, provider billing.Provider, repo subscriber.SubscriberRepository, logger Logger) (*BillingService, error) {
	if err := config.Validate(); err != nil {
		return nil, &billing.BillingError{Type: billing.ErrTypeConfig, Message: err.Error()}
	}
	if provider == nil {
		return nil, &billing.BillingError{Type: billing.ErrTypeConfig, Message: "billing provider is required"}
	}
	if repo == nil {
		return nil, &billing.BillingError{Type: billing.ErrTypeConfig, Message: "subscriber repository is required"}
	}

	return &BillingService{
		config:         config,
		provider:       provider,
		subscriberRepo: repo,
		retryConfig:    billing.DefaultRetryConfig(),
		logger:         logger,
	}, nil
}

// StartCheckout opens a hosted checkout session for the requested plan and
// hands the provider's redirect URL back to the browser.
func (s *BillingService) StartCheckout(ctx context.Context, userID uint, planID string) (*CheckoutStart, error) {
	planID = strings.TrimSpace(planID)
	priceID, ok := s.config.PriceIDs[planID]
	if !ok {
		return nil, &billing.BillingError{
			Type:    billing.ErrTypeValidation,
			Message: "unknown plan: " + planID,
		}
	}

	var session *billing.CheckoutSession
	err := billing.RetryWithBackoff(ctx, s.retryConfig, func(ctx context.Context) error {
		var callErr error
		session, callErr = s.provider.CreateCheckoutSession(ctx, userID, priceID)
		return callErr
	})
	if err != nil {
		s.logger.Error("checkout session creation failed", "user_id", userID, "plan", planID, "error", err)
		return nil, err
	}

	// Recording the session id locally is an audit aid, not a correctness
	// requirement: reconciliation re-reads the session from the provider.
	if err := s.subscriberRepo.SetCheckoutSession(ctx, userID, session.ID); err != nil {
		s.logger.Warn("could not record checkout session", "user_id", userID, "session_id", session.ID, "error", err)
	}

	s.logger.Info("checkout session created", "user_id", userID, "plan", planID, "session_id", session.ID)
	return &CheckoutStart{SessionID: session.ID, CheckoutURL: session.URL}, nil
}

// Reconcile verifies a returned checkout session against the provider and,
// only if the provider reports it complete and paid, activates the premium
// subscription locally. Anything short of that leaves local state untouched.
func (s *BillingService) Reconcile(ctx context.Context, userID uint, sessionID string) (*ReconcileResult, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, &billing.BillingError{Type: billing.ErrTypeValidation, Message: "session id is required"}
	}

	// Give the provider's own asynchronous processing a moment to settle
	// before reading session state.
	if s.config.ReconcileDelay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.config.ReconcileDelay):
		}
	}

	var session *billing.CheckoutSession
	err := billing.RetryWithBackoff(ctx, s.retryConfig, func(ctx context.Context) error {
		var callErr error
		session, callErr = s.provider.GetCheckoutSession(ctx, sessionID)
		return callErr
	})
	if err != nil {
		s.logger.Error("checkout session lookup failed", "session_id", sessionID, "error", err)
		return nil, err
	}

	if session.ClientReferenceID != strconv.FormatUint(uint64(userID), 10) {
		s.logger.Warn("checkout session belongs to a different user",
			"session_id", sessionID, "user_id", userID, "reference", session.ClientReferenceID)
		return nil, &billing.BillingError{
			Type:    billing.ErrTypeValidation,
			Message: "checkout session does not belong to this user",
		}
	}

	if session.Status != billing.SessionStatusComplete || session.PaymentStatus != billing.PaymentStatusPaid {
		s.logger.Info("checkout session not settled, leaving subscription unchanged",
			"session_id", sessionID, "status", session.Status, "payment_status", session.PaymentStatus)
		current, err := s.currentSubscriber(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &ReconcileResult{Activated: false, Subscriber: current}, nil
	}

	sub := &domain.Subscriber{
		UserID:            userID,
		Subscribed:        true,
		SubscriptionTier:  domain.TierPremium,
		CheckoutSessionID: sessionID,
	}

	// The period end is informational; a provider hiccup here must not block
	// activation of a session that is already paid.
	if session.SubscriptionID != "" {
		providerSub, err := s.provider.GetSubscription(ctx, session.SubscriptionID)
		if err != nil {
			s.logger.Warn("subscription detail lookup failed, activating without period end",
				"subscription_id", session.SubscriptionID, "error", err)
		} else if !providerSub.CurrentPeriodEnd.IsZero() {
			end := providerSub.CurrentPeriodEnd
			sub.SubscriptionEnd = &end
		}
	}

	if err := s.subscriberRepo.Upsert(ctx, sub); err != nil {
		s.logger.Error("subscription activation failed", "user_id", userID, "session_id", sessionID, "error", err)
		return nil, &billing.BillingError{
			Type:    billing.ErrTypeCheckout,
			Message: "payment confirmed but subscription could not be saved",
			Cause:   err,
		}
	}

	s.logger.Info("subscription activated", "user_id", userID, "session_id", sessionID, "tier", sub.SubscriptionTier)
	return &ReconcileResult{Activated: true, Subscriber: sub}, nil
}

func (s *BillingService) currentSubscriber(ctx context.Context, userID uint) (*domain.Subscriber, error) {
	sub, err := s.subscriberRepo.FindByUserID(ctx, userID)
	if err == subscriber.ErrSubscriberNotFound {
		return &domain.Subscriber{UserID: userID, SubscriptionTier: domain.TierFree}, nil
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}
