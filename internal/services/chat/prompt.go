// File: internal/services/chat/prompt.go
package chat

import (
	"strings"
	"unicode/utf8"

	"github.com/shadowai/shadowai/internal/domain"
	"github.com/shadowai/shadowai/internal/services/ai"
)

// Ellipsis appended to truncated conversation titles.
const Ellipsis = "..."

// DeriveTitle builds a conversation title from the first user message:
// inputs at or under maxLen runes are used verbatim, longer inputs keep the
// first keepLen runes plus an ellipsis.
func DeriveTitle(input string, maxLen, keepLen int) string {
	input = strings.TrimSpace(input)
	if utf8.RuneCountInString(input) <= maxLen {
		return input
	}
	return TruncateText(input, keepLen) + Ellipsis
}

// TruncateText safely truncates a UTF-8 string to maxLen runes, preserving
// character integrity.
func TruncateText(input string, maxLen int) string {
	if input == "" || maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(input) <= maxLen {
		return input
	}

	var b strings.Builder
	count := 0
	for _, r := range input {
		if count >= maxLen {
			break
		}
		b.WriteRune(r)
		count++
	}
	return b.String()
}

// BuildPrompt assembles the bounded request for the completion endpoint:
// the fixed system prompt, at most the last window prior messages in
// chronological order, then the new user message.
func BuildPrompt(systemPrompt string, history []domain.Message, window int, userText string) []ai.PromptMessage {
	if window > 0 && len(history) > window {
		history = history[len(history)-window:]
	}

	messages := make([]ai.PromptMessage, 0, len(history)+2)
	messages = append(messages, ai.PromptMessage{Role: "system", Content: systemPrompt})
	for _, m := range history {
		messages = append(messages, ai.PromptMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, ai.PromptMessage{Role: domain.RoleUser, Content: userText})

	return messages
}
