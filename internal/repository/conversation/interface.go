package conversation

import (
	"context"

	"github.com/shadowai/shadowai/internal/domain"
)

// ConversationRepository handles conversation data operations.
type ConversationRepository interface {
	Create(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error)
	FindByID(ctx context.Context, id uint) (*domain.Conversation, error)
	FindByUserID(ctx context.Context, userID uint, limit int) ([]domain.Conversation, error)
	UpdateTitle(ctx context.Context, conversationID uint, title string) error
	TouchUpdatedAt(ctx context.Context, conversationID uint) error
	Delete(ctx context.Context, conversationID uint, userID uint) error
}
