// File: internal/services/chat_service.go
package services

import (
	"bytes"
	"context"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/shadowai/shadowai/internal/domain"
	"github.com/shadowai/shadowai/internal/repository/conversation"
	"github.com/shadowai/shadowai/internal/repository/message"
	"github.com/shadowai/shadowai/internal/services/ai"
	chatservice "github.com/shadowai/shadowai/internal/services/chat"
)

// DefaultConversationTitle is the placeholder shown until the first turn
// derives a real title.
const DefaultConversationTitle = "New Chat"

// TierResolver selects the model tier and token budget for a user.
type TierResolver interface {
	ResolveTier(ctx context.Context, userID uint) Plan
}

// MessagePublisher pushes newly persisted messages to live subscribers.
// Publishing must never block or fail a turn.
type MessagePublisher interface {
	Publish(conversationID uint, msg domain.Message)
}

// TurnResult carries both persisted records of one completed turn back to
// the caller, plus the tier selection that served it.
type TurnResult struct {
	UserMessage      domain.Message `json:"user_message"`
	AssistantMessage domain.Message `json:"assistant_message"`
	Tier             string         `json:"tier"`
	Model            string         `json:"model"`
}

// TranscriptMessage is a persisted message enriched for the browser:
// assistant replies additionally carry their markdown rendered to HTML.
type TranscriptMessage struct {
	domain.Message
	ContentHTML string `json:"content_html,omitempty"`
}

// ChatService orchestrates one conversation turn: persist the user message,
// derive the title on the first turn, resolve the caller's tier, request a
// completion and persist the reply.
type ChatService struct {
	config      *chatservice.Config
	convRepo    conversation.ConversationRepository
	messageRepo message.MessageRepository
	aiProvider  ai.Provider
	tiers       TierResolver
	publisher   MessagePublisher
	markdown    goldmark.Markdown
	logger      Logger
}

func NewChatService(
	convRepo conversation.ConversationRepository,
	messageRepo message.MessageRepository,
	aiProvider ai.Provider,
	tiers TierResolver,
	publisher MessagePublisher,
	systemPrompt string,
	historyWindow int,
	logger Logger,
) (*ChatService, error) {
	if convRepo == nil {
		return nil, chatservice.NewValidationError("constructor", "conversation repository is required")
	}
	if messageRepo == nil {
		return nil, chatservice.NewValidationError("constructor", "message repository is required")
	}
	if aiProvider == nil {
		return nil, chatservice.NewValidationError("constructor", "completion provider is required")
	}
	if tiers == nil {
		return nil, chatservice.NewValidationError("constructor", "tier resolver is required")
	}

	config := chatservice.DefaultConfig()
	config.SystemPrompt = systemPrompt
	if historyWindow > 0 {
		config.HistoryWindow = historyWindow
	}
	if err := config.Validate(); err != nil {
		return nil, chatservice.NewValidationError("config", err.Error())
	}

	return &ChatService{
		config:      config,
		convRepo:    convRepo,
		messageRepo: messageRepo,
		aiProvider:  aiProvider,
		tiers:       tiers,
		publisher:   publisher,
		markdown:    goldmark.New(),
		logger:      logger,
	}, nil
}

// SendTurn runs one user turn end to end. On completion failure the user
// message stays persisted and no assistant message is written; resubmitting
// appends a fresh user message rather than reusing the old one.
func (s *ChatService) SendTurn(ctx context.Context, userID, conversationID uint, text string) (*TurnResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, chatservice.NewValidationError("send_turn", "message cannot be empty")
	}

	conv, err := s.convRepo.FindByID(ctx, conversationID)
	if err != nil || conv.UserID != userID {
		return nil, chatservice.NewUnauthorizedError(userID, conversationID)
	}

	priorCount, err := s.messageRepo.CountByConversationID(ctx, conversationID)
	if err != nil {
		return nil, chatservice.NewPersistenceError("send_turn", "could not read conversation state", err)
	}

	// Load the history window before the new message is written so the
	// prompt is exactly: prior window + the new user message.
	history, err := s.messageRepo.FindRecent(ctx, conversationID, s.config.HistoryWindow)
	if err != nil {
		return nil, chatservice.NewPersistenceError("send_turn", "could not load conversation history", err)
	}

	userMsg, err := s.messageRepo.Create(ctx, &domain.Message{
		ConversationID: conversationID,
		Role:           domain.RoleUser,
		Content:        text,
	})
	if err != nil {
		return nil, chatservice.NewPersistenceError("send_turn", "could not save user message", err)
	}
	s.publish(conversationID, *userMsg)

	if priorCount == 0 {
		title := chatservice.DeriveTitle(text, s.config.TitleMaxLen, s.config.TitleKeepLen)
		if err := s.convRepo.UpdateTitle(ctx, conversationID, title); err != nil {
			// The turn is still serviceable without a title; leave the
			// placeholder in place and keep going.
			s.logger.Error("title update failed", "conversation_id", conversationID, "error", err)
		}
	}

	plan := s.tiers.ResolveTier(ctx, userID)
	prompt := chatservice.BuildPrompt(s.config.SystemPrompt, history, s.config.HistoryWindow, text)

	s.logger.Info("requesting completion",
		"conversation_id", conversationID,
		"user_id", userID,
		"tier", plan.Tier,
		"model", plan.Model,
		"history_len", len(history))

	replyText, err := s.aiProvider.Complete(ctx, plan.Model, prompt, plan.TokenBudget)
	if err != nil {
		s.logger.Error("completion call failed",
			"conversation_id", conversationID, "model", plan.Model, "error", err)
		if ai.IsProtocol(err) {
			return nil, chatservice.NewProtocolError("completion", err)
		}
		return nil, chatservice.NewUpstreamError("completion", err)
	}

	assistantMsg, err := s.messageRepo.Create(ctx, &domain.Message{
		ConversationID: conversationID,
		Role:           domain.RoleAssistant,
		Content:        replyText,
	})
	if err != nil {
		// The reply was computed but is lost from storage; the caller sees a
		// failed turn and may retry it in full.
		s.logger.Error("assistant message save failed",
			"conversation_id", conversationID, "reply_length", len(replyText), "error", err)
		return nil, chatservice.NewPersistenceError("send_turn", "could not save assistant message", err)
	}

	if err := s.convRepo.TouchUpdatedAt(ctx, conversationID); err != nil {
		s.logger.Warn("conversation timestamp update failed", "conversation_id", conversationID, "error", err)
	}
	s.publish(conversationID, *assistantMsg)

	return &TurnResult{
		UserMessage:      *userMsg,
		AssistantMessage: *assistantMsg,
		Tier:             plan.Tier,
		Model:            plan.Model,
	}, nil
}

// CreateConversation provisions an empty conversation with the placeholder
// title; the first turn replaces it.
func (s *ChatService) CreateConversation(ctx context.Context, userID uint) (*domain.Conversation, error) {
	conv, err := s.convRepo.Create(ctx, &domain.Conversation{
		UserID: userID,
		Title:  DefaultConversationTitle,
	})
	if err != nil {
		return nil, chatservice.NewPersistenceError("create_conversation", "could not create conversation", err)
	}
	return conv, nil
}

// GetUserConversations lists the caller's conversations, most recent first.
func (s *ChatService) GetUserConversations(ctx context.Context, userID uint) ([]domain.Conversation, error) {
	convs, err := s.convRepo.FindByUserID(ctx, userID, 100)
	if err != nil {
		return nil, chatservice.NewPersistenceError("list_conversations", "could not list conversations", err)
	}
	return convs, nil
}

// GetConversationMessages returns the ordered transcript with assistant
// markdown rendered to HTML for display.
func (s *ChatService) GetConversationMessages(ctx context.Context, userID, conversationID uint) ([]TranscriptMessage, error) {
	if err := s.VerifyOwnership(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.FindByConversationID(ctx, conversationID)
	if err != nil {
		return nil, chatservice.NewPersistenceError("get_messages", "could not load messages", err)
	}

	transcript := make([]TranscriptMessage, 0, len(messages))
	for _, m := range messages {
		entry := TranscriptMessage{Message: m}
		if m.Role == domain.RoleAssistant {
			entry.ContentHTML = s.renderMarkdown(m.Content)
		}
		transcript = append(transcript, entry)
	}
	return transcript, nil
}

// DeleteConversation removes a conversation and its messages.
func (s *ChatService) DeleteConversation(ctx context.Context, userID, conversationID uint) error {
	if err := s.VerifyOwnership(ctx, userID, conversationID); err != nil {
		return err
	}

	if err := s.messageRepo.DeleteByConversationID(ctx, conversationID); err != nil {
		return chatservice.NewPersistenceError("delete_conversation", "could not delete messages", err)
	}
	if err := s.convRepo.Delete(ctx, conversationID, userID); err != nil {
		return chatservice.NewPersistenceError("delete_conversation", "could not delete conversation", err)
	}
	return nil
}

// VerifyOwnership confirms the conversation exists and belongs to the caller.
func (s *ChatService) VerifyOwnership(ctx context.Context, userID, conversationID uint) error {
	conv, err := s.convRepo.FindByID(ctx, conversationID)
	if err != nil || conv.UserID != userID {
		return chatservice.NewUnauthorizedError(userID, conversationID)
	}
	return nil
}

func (s *ChatService) publish(conversationID uint, msg domain.Message) {
	if s.publisher != nil {
		s.publisher.Publish(conversationID, msg)
	}
}

func (s *ChatService) renderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(content), &buf); err != nil {
		s.logger.Warn("markdown rendering failed", "error", err)
		return ""
	}
	return buf.String()
}
