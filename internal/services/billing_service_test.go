// File: internal/services/billing_service_test.go
package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shadowai/shadowai/internal/domain"
	"github.com/shadowai/shadowai/internal/services"
	"github.com/shadowai/shadowai/internal/services/billing"
)

type fakeBillingProvider struct {
	session      *billing.CheckoutSession
	sessionErr   error
	subscription *billing.Subscription
	subErr       error
	created      []string // price IDs requested
}

func (f *fakeBillingProvider) CreateCheckoutSession(ctx context.Context, userID uint, priceID string) (*billing.CheckoutSession, error) {
	f.created = append(f.created, priceID)
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	return f.session, nil
}

func (f *fakeBillingProvider) GetCheckoutSession(ctx context.Context, sessionID string) (*billing.CheckoutSession, error) {
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	return f.session, nil
}

func (f *fakeBillingProvider) GetSubscription(ctx context.Context, subscriptionID string) (*billing.Subscription, error) {
	if f.subErr != nil {
		return nil, f.subErr
	}
	return f.subscription, nil
}

func (f *fakeBillingProvider) HealthCheck(ctx context.Context) error { return nil }

func newBillingFixture(t *testing.T, provider *fakeBillingProvider) (*services.BillingService, *fakeSubscriberRepo) {
	t.Helper()

	cfg := billing.DefaultConfig()
	cfg.SecretKey = "sk_test_123"
	cfg.SuccessURL = "http://localhost/success?session_id={CHECKOUT_SESSION_ID}"
	cfg.CancelURL = "http://localhost/pricing"
	cfg.PriceIDs = map[string]string{domain.TierPremium: "price_premium"}
	cfg.ReconcileDelay = time.Millisecond

	repo := newFakeSubscriberRepo()
	svc, err := services.NewBillingService(cfg, provider, repo, &services.NoOpLogger{})
	if err != nil {
		t.Fatalf("NewBillingService: %v", err)
	}
	return svc, repo
}

func TestStartCheckoutReturnsRedirectURL(t *testing.T) {
	provider := &fakeBillingProvider{
		session: &billing.CheckoutSession{ID: "cs_123", URL: "https://checkout.test/cs_123"},
	}
	svc, repo := newBillingFixture(t, provider)

	start, err := svc.StartCheckout(context.Background(), 1, domain.TierPremium)
	if err != nil {
		t.Fatalf("StartCheckout: %v", err)
	}

	if start.CheckoutURL != "https://checkout.test/cs_123" || start.SessionID != "cs_123" {
		t.Errorf("unexpected checkout start: %+v", start)
	}
	if len(provider.created) != 1 || provider.created[0] != "price_premium" {
		t.Errorf("wrong price requested: %v", provider.created)
	}
	if repo.sessions[1] != "cs_123" {
		t.Errorf("session id should be recorded for the user, got %q", repo.sessions[1])
	}
}

func TestStartCheckoutUnknownPlan(t *testing.T) {
	svc, _ := newBillingFixture(t, &fakeBillingProvider{})

	_, err := svc.StartCheckout(context.Background(), 1, "platinum")
	if err == nil {
		t.Fatal("expected error for unknown plan")
	}
	billErr, ok := err.(*billing.BillingError)
	if !ok || billErr.Type != billing.ErrTypeValidation {
		t.Errorf("expected VALIDATION billing error, got %v", err)
	}
}

func TestReconcileActivatesPaidSession(t *testing.T) {
	end := time.Now().Add(30 * 24 * time.Hour).UTC().Truncate(time.Second)
	provider := &fakeBillingProvider{
		session: &billing.CheckoutSession{
			ID:                "cs_123",
			Status:            billing.SessionStatusComplete,
			PaymentStatus:     billing.PaymentStatusPaid,
			ClientReferenceID: "1",
			SubscriptionID:    "sub_456",
		},
		subscription: &billing.Subscription{ID: "sub_456", Status: "active", CurrentPeriodEnd: end},
	}
	svc, repo := newBillingFixture(t, provider)

	result, err := svc.Reconcile(context.Background(), 1, "cs_123")
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	if !result.Activated {
		t.Fatal("paid session should activate the subscription")
	}
	if repo.upserted == nil {
		t.Fatal("subscriber row should be upserted")
	}
	if !repo.upserted.Subscribed || repo.upserted.SubscriptionTier != domain.TierPremium {
		t.Errorf("unexpected subscriber state: %+v", repo.upserted)
	}
	if repo.upserted.SubscriptionEnd == nil || !repo.upserted.SubscriptionEnd.Equal(end) {
		t.Errorf("period end should come from the provider, got %v", repo.upserted.SubscriptionEnd)
	}
}

func TestReconcileIncompleteSessionLeavesStateUnchanged(t *testing.T) {
	provider := &fakeBillingProvider{
		session: &billing.CheckoutSession{
			ID:                "cs_123",
			Status:            "open",
			PaymentStatus:     "unpaid",
			ClientReferenceID: "1",
		},
	}
	svc, repo := newBillingFixture(t, provider)

	result, err := svc.Reconcile(context.Background(), 1, "cs_123")
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	if result.Activated {
		t.Error("unpaid session must not activate")
	}
	if repo.upserted != nil {
		t.Errorf("no write should happen for an unsettled session, got %+v", repo.upserted)
	}
	if result.Subscriber.SubscriptionTier != domain.TierFree {
		t.Errorf("caller should still read as free, got %q", result.Subscriber.SubscriptionTier)
	}
}

func TestReconcileRejectsForeignSession(t *testing.T) {
	provider := &fakeBillingProvider{
		session: &billing.CheckoutSession{
			ID:                "cs_123",
			Status:            billing.SessionStatusComplete,
			PaymentStatus:     billing.PaymentStatusPaid,
			ClientReferenceID: "42",
		},
	}
	svc, repo := newBillingFixture(t, provider)

	_, err := svc.Reconcile(context.Background(), 1, "cs_123")
	if err == nil {
		t.Fatal("expected error for a session opened by another user")
	}
	if repo.upserted != nil {
		t.Errorf("foreign session must not change subscription state")
	}
}

func TestReconcileActivatesWithoutPeriodEndOnSubLookupFailure(t *testing.T) {
	provider := &fakeBillingProvider{
		session: &billing.CheckoutSession{
			ID:                "cs_123",
			Status:            billing.SessionStatusComplete,
			PaymentStatus:     billing.PaymentStatusPaid,
			ClientReferenceID: "1",
			SubscriptionID:    "sub_456",
		},
		subErr: &billing.BillingError{Type: billing.ErrTypeNetwork, Message: "timeout"},
	}
	svc, repo := newBillingFixture(t, provider)

	result, err := svc.Reconcile(context.Background(), 1, "cs_123")
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if !result.Activated {
		t.Error("paid session should still activate when the detail lookup fails")
	}
	if repo.upserted == nil || repo.upserted.SubscriptionEnd != nil {
		t.Errorf("activation should proceed without a period end, got %+v", repo.upserted)
	}
}

func TestReconcileEmptySessionID(t *testing.T) {
	svc, _ := newBillingFixture(t, &fakeBillingProvider{})

	_, err := svc.Reconcile(context.Background(), 1, "  ")
	if err == nil {
		t.Fatal("expected validation error for empty session id")
	}
}
