package message

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/shadowai/shadowai/internal/domain"
)

var ErrMessageNotFound = errors.New("message not found")

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

// Create inserts a single message. Each insert is atomic; there is no
// multi-statement transaction spanning a full turn.
func (r *gormMessageRepository) Create(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	if err := r.validateMessageInput(message); err != nil {
		log.Printf("[MessageRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	err := r.db.WithContext(ctx).Create(message).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error during message creation for conversation ID %d: %v", message.ConversationID, err)
		return nil, errors.New("database error creating message")
	}

	return message, nil
}

// FindByConversationID returns the full transcript ordered by creation time
// ascending. The id tiebreak keeps ordering total when timestamps collide.
func (r *gormMessageRepository) FindByConversationID(ctx context.Context, conversationID uint) ([]domain.Message, error) {
	if conversationID == 0 {
		return nil, errors.New("invalid conversation ID")
	}

	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error

	if err != nil {
		log.Printf("[MessageRepository] Database error finding messages for conversation ID %d: %v", conversationID, err)
		return nil, errors.New("database error fetching messages")
	}

	return messages, nil
}

// FindRecent returns at most limit of the newest messages, reordered to
// chronological (oldest first) for prompt assembly.
func (r *gormMessageRepository) FindRecent(ctx context.Context, conversationID uint, limit int) ([]domain.Message, error) {
	if conversationID == 0 {
		return nil, errors.New("invalid conversation ID")
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error

	if err != nil {
		log.Printf("[MessageRepository] Database error finding recent messages for conversation ID %d: %v", conversationID, err)
		return nil, errors.New("database error finding recent messages")
	}

	// Reverse to oldest -> newest
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

func (r *gormMessageRepository) CountByConversationID(ctx context.Context, conversationID uint) (int64, error) {
	if conversationID == 0 {
		return 0, errors.New("invalid conversation ID")
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Message{}).Where("conversation_id = ?", conversationID).Count(&count).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error counting messages for conversation ID %d: %v", conversationID, err)
		return 0, errors.New("database error counting messages")
	}

	return count, nil
}

// DeleteByConversationID performs a bulk deletion of all messages associated
// with a given conversation. Used when the owning conversation is deleted.
func (r *gormMessageRepository) DeleteByConversationID(ctx context.Context, conversationID uint) error {
	if conversationID == 0 {
		return errors.New("invalid conversation ID")
	}

	result := r.db.WithContext(ctx).Where("conversation_id = ?", conversationID).Delete(&domain.Message{})
	if result.Error != nil {
		log.Printf("[MessageRepository] Database error deleting messages for conversation ID %d: %v", conversationID, result.Error)
		return errors.New("database error deleting messages by conversation ID")
	}

	log.Printf("[MessageRepository] Deleted %d messages for conversation %d", result.RowsAffected, conversationID)
	return nil
}

// ===== VALIDATION HELPERS =====

func (r *gormMessageRepository) validateMessageInput(message *domain.Message) error {
	if message == nil {
		return errors.New("message cannot be nil")
	}
	if message.ConversationID == 0 {
		return errors.New("conversation ID is required")
	}
	if strings.TrimSpace(message.Content) == "" {
		return errors.New("message content cannot be empty")
	}
	if message.Role != domain.RoleUser && message.Role != domain.RoleAssistant {
		return errors.New("invalid message role")
	}
	return nil
}
