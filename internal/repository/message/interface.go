package message

import (
	"context"

	"github.com/shadowai/shadowai/internal/domain"
)

// MessageRepository handles message data operations. Messages are append-only;
// there is no update path.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) (*domain.Message, error)
	FindByConversationID(ctx context.Context, conversationID uint) ([]domain.Message, error)
	FindRecent(ctx context.Context, conversationID uint, limit int) ([]domain.Message, error)
	CountByConversationID(ctx context.Context, conversationID uint) (int64, error)
	DeleteByConversationID(ctx context.Context, conversationID uint) error
}
