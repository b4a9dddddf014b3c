package conversation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/shadowai/shadowai/internal/domain"
)

var ErrConversationNotFound = errors.New("conversation not found")
var ErrUnauthorizedAccess = errors.New("unauthorized access to conversation")

type gormConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &gormConversationRepository{db: db}
}

// Create inserts a new conversation after validating its fields.
func (r *gormConversationRepository) Create(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error) {
	if err := r.validateConversationInput(conv); err != nil {
		log.Printf("[ConversationRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	err := r.db.WithContext(ctx).Create(conv).Error
	if err != nil {
		log.Printf("[ConversationRepository] Database error during creation for user ID %d: %v", conv.UserID, err)
		return nil, errors.New("database error creating conversation")
	}

	return conv, nil
}

func (r *gormConversationRepository) FindByID(ctx context.Context, id uint) (*domain.Conversation, error) {
	if id == 0 {
		return nil, errors.New("invalid conversation ID")
	}

	var conv domain.Conversation
	err := r.db.WithContext(ctx).First(&conv, id).Error
	return r.handleFindError(err, &conv, "FindByID")
}

// FindByUserID returns the user's conversations, most recently updated first.
func (r *gormConversationRepository) FindByUserID(ctx context.Context, userID uint, limit int) ([]domain.Conversation, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	var convs []domain.Conversation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC, id DESC").
		Limit(limit).
		Find(&convs).Error

	if err != nil {
		log.Printf("[ConversationRepository] Database error finding conversations for user ID %d: %v", userID, err)
		return nil, errors.New("database error fetching conversations")
	}

	return convs, nil
}

// UpdateTitle sets the conversation title and refreshes its updated_at.
func (r *gormConversationRepository) UpdateTitle(ctx context.Context, conversationID uint, title string) error {
	if conversationID == 0 {
		return errors.New("invalid conversation ID")
	}
	if err := r.validateTitle(title); err != nil {
		return fmt.Errorf("title validation: %w", err)
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ?", conversationID).
		Updates(map[string]interface{}{
			"title":      title,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		})

	if result.Error != nil {
		log.Printf("[ConversationRepository] Database error updating title for conversation ID %d: %v", conversationID, result.Error)
		return errors.New("database error updating conversation title")
	}

	if result.RowsAffected == 0 {
		return ErrConversationNotFound
	}

	return nil
}

func (r *gormConversationRepository) TouchUpdatedAt(ctx context.Context, conversationID uint) error {
	if conversationID == 0 {
		return errors.New("invalid conversation ID")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ?", conversationID).
		Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP"))

	if result.Error != nil {
		log.Printf("[ConversationRepository] Database error updating timestamp for conversation ID %d: %v", conversationID, result.Error)
		return errors.New("database error updating conversation timestamp")
	}

	if result.RowsAffected == 0 {
		return ErrConversationNotFound
	}

	return nil
}

// Delete removes a conversation scoped by owner. Deleting zero rows means the
// conversation does not exist or belongs to another user.
func (r *gormConversationRepository) Delete(ctx context.Context, conversationID, userID uint) error {
	if conversationID == 0 || userID == 0 {
		return errors.New("invalid conversation ID or user ID")
	}

	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", conversationID, userID).
		Delete(&domain.Conversation{})

	if result.Error != nil {
		log.Printf("[ConversationRepository] Database error deleting conversation ID %d for user ID %d: %v", conversationID, userID, result.Error)
		return errors.New("database error deleting conversation")
	}

	if result.RowsAffected == 0 {
		return ErrUnauthorizedAccess
	}

	return nil
}

// ===== VALIDATION HELPERS =====

func (r *gormConversationRepository) validateConversationInput(conv *domain.Conversation) error {
	if conv == nil {
		return errors.New("conversation cannot be nil")
	}
	if conv.UserID == 0 {
		return errors.New("user ID is required")
	}
	return r.validateTitle(conv.Title)
}

func (r *gormConversationRepository) validateTitle(title string) error {
	if len(title) > 200 {
		return errors.New("title must be 200 characters or less")
	}
	if strings.Contains(title, "<script") || strings.Contains(title, "javascript:") {
		return errors.New("invalid characters detected in title")
	}
	return nil
}

// handleFindError maps lookup failures without leaking database details.
func (r *gormConversationRepository) handleFindError(err error, conv *domain.Conversation, operation string) (*domain.Conversation, error) {
	if err == nil {
		return conv, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConversationNotFound
	}

	log.Printf("[ConversationRepository] %s database error: %v", operation, err)
	return nil, errors.New("database query failed")
}
