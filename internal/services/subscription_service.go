// File: internal/services/subscription_service.go
package services

import (
	"context"
	"time"

	"github.com/shadowai/shadowai/internal/domain"
	"github.com/shadowai/shadowai/internal/repository/subscriber"
)

// Token budgets per tier. Fixed caps; anything finer-grained than this is
// deliberately out of scope.
const (
	FreeTokenBudget    = 1000
	PremiumTokenBudget = 2000
)

// Plan is the resolved model-tier selection for one user.
type Plan struct {
	Tier        string `json:"tier"`
	TokenBudget int    `json:"token_budget"`
	Model       string `json:"model"`
}

// SubscriptionService maps billing status to a model tier and token budget.
// It is a pure read; the chat path never writes subscription state.
type SubscriptionService struct {
	subscriberRepo subscriber.SubscriberRepository
	freeModel      string
	premiumModel   string
	logger         Logger
}

func NewSubscriptionService(repo subscriber.SubscriberRepository, freeModel, premiumModel string, logger Logger) *SubscriptionService {
	return &SubscriptionService{
		subscriberRepo: repo,
		freeModel:      freeModel,
		premiumModel:   premiumModel,
		logger:         logger,
	}
}

// ResolveTier looks up the user's billing status and maps it to a plan.
// A missing row, an inactive or expired subscription, or a failed lookup all
// degrade to the free tier: availability wins over billing precision here.
func (s *SubscriptionService) ResolveTier(ctx context.Context, userID uint) Plan {
	sub, err := s.subscriberRepo.FindByUserID(ctx, userID)
	if err != nil {
		if err != subscriber.ErrSubscriberNotFound {
			s.logger.Warn("subscription lookup failed, degrading to free tier",
				"user_id", userID, "error", err)
		}
		return s.freePlan()
	}

	if !sub.IsActive(time.Now()) {
		return s.freePlan()
	}

	tier := sub.SubscriptionTier
	if tier == "" {
		tier = domain.TierPremium
	}

	return Plan{
		Tier:        tier,
		TokenBudget: PremiumTokenBudget,
		Model:       s.premiumModel,
	}
}

// GetStatus returns the raw subscriber row for the signed-in user, or the
// free defaults when none exists.
func (s *SubscriptionService) GetStatus(ctx context.Context, userID uint) (*domain.Subscriber, error) {
	sub, err := s.subscriberRepo.FindByUserID(ctx, userID)
	if err == subscriber.ErrSubscriberNotFound {
		return &domain.Subscriber{
			UserID:           userID,
			Subscribed:       false,
			SubscriptionTier: domain.TierFree,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *SubscriptionService) freePlan() Plan {
	return Plan{
		Tier:        domain.TierFree,
		TokenBudget: FreeTokenBudget,
		Model:       s.freeModel,
	}
}
