package subscriber

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shadowai/shadowai/internal/domain"
)

var ErrSubscriberNotFound = errors.New("subscriber not found")

type gormSubscriberRepository struct {
	db *gorm.DB
}

func NewSubscriberRepository(db *gorm.DB) SubscriberRepository {
	return &gormSubscriberRepository{db: db}
}

func (r *gormSubscriberRepository) FindByUserID(ctx context.Context, userID uint) (*domain.Subscriber, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}

	var sub domain.Subscriber
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriberNotFound
		}
		log.Printf("[SubscriberRepository] Database error finding subscriber for user ID %d: %v", userID, err)
		return nil, errors.New("database query failed")
	}

	return &sub, nil
}

// Upsert writes the full billing state for a user, inserting the row on first
// reconciliation and replacing it afterwards.
func (r *gormSubscriberRepository) Upsert(ctx context.Context, sub *domain.Subscriber) error {
	if sub == nil || sub.UserID == 0 {
		return errors.New("invalid subscriber")
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"subscribed", "subscription_tier", "subscription_end", "checkout_session_id", "updated_at"}),
		}).
		Create(sub).Error

	if err != nil {
		log.Printf("[SubscriberRepository] Database error upserting subscriber for user ID %d: %v", sub.UserID, err)
		return errors.New("database error upserting subscriber")
	}

	return nil
}

// SetCheckoutSession records the hosted checkout session started for a user so
// a later reconciliation can be matched back to it. Creates the row with the
// free defaults if the user has never subscribed.
func (r *gormSubscriberRepository) SetCheckoutSession(ctx context.Context, userID uint, sessionID string) error {
	if userID == 0 || sessionID == "" {
		return errors.New("invalid user ID or session ID")
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"checkout_session_id", "updated_at"}),
		}).
		Create(&domain.Subscriber{
			UserID:            userID,
			Subscribed:        false,
			SubscriptionTier:  domain.TierFree,
			CheckoutSessionID: sessionID,
		}).Error

	if err != nil {
		log.Printf("[SubscriberRepository] Database error recording checkout session for user ID %d: %v", userID, err)
		return errors.New("database error recording checkout session")
	}

	return nil
}
