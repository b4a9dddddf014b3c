package subscriber

import (
	"context"

	"github.com/shadowai/shadowai/internal/domain"
)

// SubscriberRepository handles billing-status rows. The chat path only reads;
// writes happen on the checkout/reconciliation path.
type SubscriberRepository interface {
	FindByUserID(ctx context.Context, userID uint) (*domain.Subscriber, error)
	Upsert(ctx context.Context, sub *domain.Subscriber) error
	SetCheckoutSession(ctx context.Context, userID uint, sessionID string) error
}
