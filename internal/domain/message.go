// File: internal/domain/message.go
package domain

import "time"

// Message roles. Every persisted message is exactly one of these.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single message within a conversation. Messages are
// append-only and immutable once created; ordering within a conversation is
// by creation time ascending.
type Message struct {
	ID             uint      `json:"id" gorm:"primarykey"`
	ConversationID uint      `json:"conversation_id" gorm:"not null;index"`
	Role           string    `json:"role" gorm:"not null"` // "user" or "assistant"
	Content        string    `json:"content" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`
}
